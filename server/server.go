// Package server contains go-home garage API server.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/state"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	// Logger system representation.
	logSystem = "server"
)

// ConstructServer has data required for a new API server.
type ConstructServer struct {
	Settings   providers.ISettingsProvider
	State      *state.Session
	Session    providers.ISessionProvider
	Connection providers.IConnectionProvider
	Inventory  providers.IInventoryProvider
	Bus        providers.IBusProvider
}

// GarageServer describes garage API server.
type GarageServer struct {
	settings   *providers.AppSettings
	logger     common.ILoggerProvider
	security   providers.ISecurityProvider
	fanOut     providers.IFanOutProvider
	state      *state.Session
	session    providers.ISessionProvider
	connection providers.IConnectionProvider
	inventory  providers.IInventoryProvider
	bus        providers.IBusProvider

	wsSettings websocket.Upgrader
	httpServer *http.Server
}

// NewServer constructs a new API server.
func NewServer(ctor *ConstructServer) *GarageServer {
	s := &GarageServer{
		settings:   ctor.Settings.AppSettings(),
		logger:     ctor.Settings.SystemLoggerFor(logSystem),
		security:   ctor.Settings.Security(),
		fanOut:     ctor.Settings.FanOut(),
		state:      ctor.State,
		session:    ctor.Session,
		connection: ctor.Connection,
		inventory:  ctor.Inventory,
		bus:        ctor.Bus,
	}

	s.wsSettings = websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}

	return s
}

// Start launches API server.
func (s *GarageServer) Start() {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.settings.Port),
		Handler: s.Router(),
	}

	go func() {
		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("Failed to start server", err)
		}
	}()

	s.logger.Info(fmt.Sprintf("Started server on port %d", s.settings.Port))
}

// Stop gracefully stops API server.
func (s *GarageServer) Stop(ctx context.Context) error {
	if nil == s.httpServer {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns API handler.
func (s *GarageServer) Router() http.Handler {
	router := mux.NewRouter()
	s.registerAPI(router)

	var handler http.Handler = router
	if len(s.settings.AllowedOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(s.settings.AllowedOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
			handlers.AllowCredentials(),
		)(handler)
	}

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(handler)
}

// All API registration.
func (s *GarageServer) registerAPI(router *mux.Router) {
	publicRouter := router.PathPrefix("/pub").Subrouter()
	publicRouter.HandleFunc("/ping", s.ping).Methods(http.MethodGet)

	apiRouter := router.PathPrefix(routeAPI).Subrouter()
	apiRouter.HandleFunc("/state", s.getState).Methods(http.MethodGet)
	apiRouter.HandleFunc("/login", s.adminMiddleware(s.login)).Methods(http.MethodPost)
	apiRouter.HandleFunc("/logout", s.adminMiddleware(s.logout)).Methods(http.MethodPost)
	apiRouter.HandleFunc("/error", s.adminMiddleware(s.clearError)).Methods(http.MethodDelete)

	apiRouter.HandleFunc("/garages", s.getGarages).Methods(http.MethodGet)
	apiRouter.HandleFunc("/garages/refresh", s.adminMiddleware(s.refreshGarages)).Methods(http.MethodPost)
	apiRouter.HandleFunc(fmt.Sprintf("/garages/{%s}", urlGarageID), s.getGarage).Methods(http.MethodGet)
	apiRouter.HandleFunc(fmt.Sprintf("/garages/{%s}/{%s}", urlGarageID, urlCommandName),
		s.garageCommand).Methods(http.MethodPost)

	apiRouter.HandleFunc("/discovery", s.adminMiddleware(s.getDiscovery)).Methods(http.MethodGet)
	apiRouter.HandleFunc("/discovery/start", s.adminMiddleware(s.startDiscovery)).Methods(http.MethodPost)
	apiRouter.HandleFunc("/discovery/stop", s.adminMiddleware(s.stopDiscovery)).Methods(http.MethodPost)
	apiRouter.HandleFunc(fmt.Sprintf("/discovery/{%s}/claim", urlLockID),
		s.adminMiddleware(s.claim)).Methods(http.MethodPost)

	apiRouter.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)

	apiRouter.Use(s.authMiddleware)
	apiRouter.Use(s.logMiddleware)
}

// Validates websocket origin against allowed ones.
func (s *GarageServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if "" == origin || 0 == len(s.settings.AllowedOrigins) {
		return true
	}

	for _, v := range s.settings.AllowedOrigins {
		if "*" == v || origin == v {
			return true
		}
	}

	return false
}
