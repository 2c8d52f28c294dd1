package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/connection"
	"github.com/go-home-io/garage/systems/inventory"
	"github.com/go-home-io/garage/systems/session"
	"github.com/pkg/errors"
)

// API problem response.
type problem struct {
	Status  string `json:"status"`
	Problem string `json:"problem"`
}

// Plain HTTP_200 API response.
func respondOk(writer http.ResponseWriter) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusOK)
	io.WriteString(writer, `{ "status": "OK" }`) // nolint: errcheck
}

// Generic API respond.
func respond(writer http.ResponseWriter, data interface{}) {
	d, err := json.Marshal(data)
	if err != nil {
		respondError(writer, http.StatusInternalServerError, err.Error())
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusOK)
	writer.Write(d) // nolint: errcheck
}

// Validates whether error is not null and responds different status
// depending on it.
func respondOkError(writer http.ResponseWriter, err error) {
	if err != nil {
		respondError(writer, errorStatus(err), err.Error())
	} else {
		respondOk(writer)
	}
}

// Return HTTP_UNAUTHORIZED status with basic auth challenge.
func respondUnAuth(writer http.ResponseWriter) {
	writer.Header().Set("WWW-Authenticate", `Basic realm="go-home garage"`)
	http.Error(writer, "Unauthorized", http.StatusUnauthorized)
}

// Return HTTP_FORBIDDEN status.
func respondForbidden(writer http.ResponseWriter) {
	respondError(writer, http.StatusForbidden, (&ErrForbidden{}).Error())
}

// Error API response.
func respondError(writer http.ResponseWriter, status int, err string) {
	d, _ := json.Marshal(&problem{Status: "ERROR", Problem: err})
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	writer.Write(d) // nolint: errcheck
}

// Maps known errors to HTTP status.
func errorStatus(err error) int {
	switch errors.Cause(err).(type) {
	case *ErrBadRequest, *ErrUnknownCommand:
		return http.StatusBadRequest
	case *ErrForbidden:
		return http.StatusForbidden
	case *ErrUnknownLock, *inventory.ErrUnknownGarage:
		return http.StatusNotFound
	case *inventory.ErrGarageBusy, *connection.ErrConnectInProgress:
		return http.StatusConflict
	case *session.ErrInvalidTransition, *session.ErrEmptyInvitationCode:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Logger middleware for the API.
func (s *GarageServer) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("REST invocation", common.LogURLToken, r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

// Authz middleware.
func (s *GarageServer) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.security.GetUser(r.Header)
		if err != nil {
			s.logger.Warn("Unauthorized access attempt", common.LogURLToken, r.RequestURI)
			respondUnAuth(w)

			return
		}

		ctx := context.WithValue(r.Context(), ctxtUserName, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Admin-only middleware.
func (s *GarageServer) adminMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		usr := getContextUser(r)
		if !usr.Admin() {
			s.logger.Warn("Admin access attempt", common.LogUserNameToken, usr.Name(),
				common.LogURLToken, r.RequestURI)
			respondForbidden(w)
			return
		}

		next(w, r)
	}
}

// Gets current user out of context.
func getContextUser(request *http.Request) providers.IAuthenticatedUser {
	return request.Context().Value(ctxtUserName).(providers.IAuthenticatedUser)
}
