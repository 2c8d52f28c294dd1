package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-home-io/garage/mocks"
	"github.com/go-home-io/garage/plugins/lock"
	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/connection"
	"github.com/go-home-io/garage/systems/fanout"
	"github.com/go-home-io/garage/systems/inventory"
	"github.com/go-home-io/garage/systems/security"
	"github.com/go-home-io/garage/systems/session"
	"github.com/go-home-io/garage/systems/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type fixture struct {
	sdk        *mocks.FakeSDK
	bus        *mocks.FakeBus
	state      *state.Session
	connection providers.IConnectionProvider
	inventory  providers.IInventoryProvider
	session    providers.ISessionProvider
	handler    http.Handler
}

func getHash(t *testing.T, pwd string) string {
	b, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

func getFixture(t *testing.T) *fixture {
	log := mocks.FakeNewLogger(nil)
	fanOut := fanout.NewFanOut(log)

	sec := security.NewSecurityProvider(&security.ConstructSecurityProvider{
		Logger: log,
		Settings: &providers.SecuritySettings{
			Users: []*providers.SecUser{
				{Name: "admin", Password: getHash(t, "admin")},
				{Name: "guest", Password: getHash(t, "guest")},
			},
			Roles: []*providers.SecRole{
				{Name: "admins", Users: []string{"admin"}, Garages: []string{"*"}, Verbs: []string{"*"}},
				{Name: "guests", Users: []string{"guest"}, Garages: []string{"a"}, Verbs: []string{"get"}},
			},
		},
	})

	settings := mocks.FakeNewSettings(nil, sec, fanOut, nil)

	f := &fixture{
		sdk: mocks.FakeNewSDK(),
		bus: mocks.FakeNewServiceBus(nil),
		state: state.NewSession(func(snap *state.Snapshot) {
			fanOut.Publish(snap)
		}),
	}

	f.connection = connection.NewCoordinator(&connection.ConstructCoordinator{
		SDK:    f.sdk,
		State:  f.state,
		Logger: log,
	})
	require.NoError(t, f.connection.InitializeSDK(context.Background()))

	f.inventory = inventory.NewProjector(&inventory.ConstructProjector{
		Connection: f.connection,
		State:      f.state,
		Logger:     log,
		Settings:   settings.InventorySettings(),
		Cron:       settings.Cron(),
	})

	f.session = session.NewController(&session.ConstructController{
		Connection: f.connection,
		Inventory:  f.inventory,
		State:      f.state,
		Logger:     log,
		Settings:   settings.AppSettings(),
	})

	f.handler = NewServer(&ConstructServer{
		Settings:   settings,
		State:      f.state,
		Session:    f.session,
		Connection: f.connection,
		Inventory:  f.inventory,
		Bus:        f.bus,
	}).Router()

	return f
}

// Loads garages a and b with a in range.
func getOnlineFixture(t *testing.T) *fixture {
	f := getFixture(t)
	f.sdk.Accesses = []*lock.Access{{LockID: "a", Title: "North"}, {LockID: "b", Title: "South"}}
	require.NoError(t, f.inventory.LoadGaragesAfterActivation(context.Background()))
	f.inventory.UpdateGarageStatuses([]*lock.DiscoveredLock{{HardwareID: "a", Name: "North Lock"}})
	return f
}

func authHeader(usr string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", usr, usr)))
}

func (f *fixture) do(method string, url string, usr string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	if "" != usr {
		req.Header.Set("Authorization", authHeader(usr))
	}

	r := httptest.NewRecorder()
	f.handler.ServeHTTP(r, req)
	return r
}

func getProblem(t *testing.T, r *httptest.ResponseRecorder) string {
	p := &problem{}
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), p))
	assert.Equal(t, "ERROR", p.Status)
	return p.Problem
}

// Tests ping.
func TestPingAPI(t *testing.T) {
	f := getFixture(t)

	r := f.do(http.MethodGet, "/pub/ping", "", "")
	assert.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "application/json", r.Header().Get("Content-Type"))

	f.bus.PingErr = errors.New("down")
	r = f.do(http.MethodGet, "/pub/ping", "", "")
	assert.Equal(t, http.StatusInternalServerError, r.Code)
	assert.Equal(t, "State bus unavailable", getProblem(t, r))
}

// Tests unauthorized access.
func TestUnauthorizedAPI(t *testing.T) {
	f := getFixture(t)

	r := f.do(http.MethodGet, routeAPI+"/state", "", "")
	assert.Equal(t, http.StatusUnauthorized, r.Code)
	assert.NotEmpty(t, r.Header().Get("WWW-Authenticate"))

	r = f.do(http.MethodGet, routeAPI+"/state", "unknown", "")
	assert.Equal(t, http.StatusUnauthorized, r.Code)

	r = f.do(http.MethodGet, routeAPI+"/state", "admin", "")
	assert.Equal(t, http.StatusOK, r.Code)
}

// Tests admin-only routes.
func TestForbiddenAPI(t *testing.T) {
	f := getFixture(t)

	data := []struct {
		method string
		url    string
	}{
		{method: http.MethodPost, url: "/login"},
		{method: http.MethodPost, url: "/logout"},
		{method: http.MethodDelete, url: "/error"},
		{method: http.MethodPost, url: "/garages/refresh"},
		{method: http.MethodGet, url: "/discovery"},
		{method: http.MethodPost, url: "/discovery/start"},
		{method: http.MethodPost, url: "/discovery/stop"},
		{method: http.MethodPost, url: "/discovery/a/claim"},
	}

	for _, v := range data {
		r := f.do(v.method, routeAPI+v.url, "guest", `{"code":"abc"}`)
		assert.Equal(t, http.StatusForbidden, r.Code, v.url)
	}

	assert.Equal(t, state.AppLoading, f.session.AppState())
	assert.Equal(t, 0, f.sdk.Calls("ActivateOperatingDevice"))
}

// Tests login and logout.
func TestLoginLogoutAPI(t *testing.T) {
	f := getFixture(t)
	f.session.CheckInitialState(context.Background())
	require.Equal(t, state.AppNeedsActivation, f.session.AppState())

	r := f.do(http.MethodPost, routeAPI+"/login", "admin", "not json")
	assert.Equal(t, http.StatusBadRequest, r.Code)

	r = f.do(http.MethodPost, routeAPI+"/login", "admin", `{"code":""}`)
	assert.Equal(t, http.StatusBadRequest, r.Code)

	r = f.do(http.MethodPost, routeAPI+"/login", "admin", `{"code":"abc"}`)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, state.AppActive, f.session.AppState())

	r = f.do(http.MethodPost, routeAPI+"/login", "admin", `{"code":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, r.Code)

	r = f.do(http.MethodGet, routeAPI+"/garages", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	garages := make([]*providers.GarageStatus, 0)
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &garages))
	require.Len(t, garages, 2)
	assert.True(t, garages[0].IsFake)

	r = f.do(http.MethodPost, routeAPI+"/logout", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, state.AppNeedsActivation, f.session.AppState())
	assert.Empty(t, f.inventory.Garages())
	assert.False(t, f.connection.IsScanning())
}

// Tests state visibility.
func TestStateAPI(t *testing.T) {
	f := getOnlineFixture(t)

	r := f.do(http.MethodGet, routeAPI+"/state", "guest", "")
	require.Equal(t, http.StatusOK, r.Code)
	snap := &state.Snapshot{}
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), snap))
	require.Len(t, snap.Garages, 1)
	assert.Equal(t, "a", snap.Garages[0].ID)
	assert.Empty(t, snap.Discovered)

	r = f.do(http.MethodGet, routeAPI+"/state", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	snap = &state.Snapshot{}
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), snap))
	assert.Len(t, snap.Garages, 2)
}

// Tests garages listing.
func TestGaragesAPI(t *testing.T) {
	f := getOnlineFixture(t)

	r := f.do(http.MethodGet, routeAPI+"/garages", "guest", "")
	require.Equal(t, http.StatusOK, r.Code)
	garages := make([]*providers.GarageStatus, 0)
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &garages))
	require.Len(t, garages, 1)
	assert.Equal(t, providers.GarageInRange, garages[0].Connection)

	r = f.do(http.MethodGet, routeAPI+"/garages/a", "guest", "")
	require.Equal(t, http.StatusOK, r.Code)
	st := &providers.GarageStatus{}
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), st))
	assert.Equal(t, "North", st.Name)

	r = f.do(http.MethodGet, routeAPI+"/garages/b", "guest", "")
	assert.Equal(t, http.StatusForbidden, r.Code)

	r = f.do(http.MethodGet, routeAPI+"/garages/b", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), st))
	assert.Equal(t, providers.GarageOffline, st.Connection)

	r = f.do(http.MethodGet, routeAPI+"/garages/x", "admin", "")
	assert.Equal(t, http.StatusNotFound, r.Code)

	f.sdk.Set(func(s *mocks.FakeSDK) {
		s.Accesses = []*lock.Access{{LockID: "c", Title: "New"}}
	})
	r = f.do(http.MethodPost, routeAPI+"/garages/refresh", "admin", "")
	assert.Equal(t, http.StatusBadRequest, r.Code)
	assert.Len(t, f.inventory.Garages(), 2)

	f.state.Update(func(d *state.Data) {
		d.AppState = state.AppActive
	})
	r = f.do(http.MethodPost, routeAPI+"/garages/refresh", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	require.Len(t, f.inventory.Garages(), 1)
	assert.Equal(t, "c", f.inventory.Garages()[0].ID)
}

// Tests garage commands.
func TestGarageCommandsAPI(t *testing.T) {
	f := getOnlineFixture(t)
	defer f.connection.DisconnectFromLock(context.Background()) // nolint: errcheck

	r := f.do(http.MethodPost, routeAPI+"/garages/a/operate", "guest", "")
	assert.Equal(t, http.StatusForbidden, r.Code)
	assert.Equal(t, 0, f.sdk.Calls("Connect"))

	r = f.do(http.MethodPost, routeAPI+"/garages/a/fly", "admin", "")
	assert.Equal(t, http.StatusBadRequest, r.Code)
	assert.Equal(t, "command fly is unknown", getProblem(t, r))

	r = f.do(http.MethodPost, routeAPI+"/garages/b/connect", "admin", "")
	assert.Equal(t, http.StatusInternalServerError, r.Code)

	r = f.do(http.MethodPost, routeAPI+"/garages/a/operate", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, 1, f.sdk.Calls("Connect"))
	assert.Equal(t, 1, f.sdk.Calls("Unlock"))

	r = f.do(http.MethodPost, routeAPI+"/garages/a/lock", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, 1, f.sdk.Calls("Connect"))
	assert.Equal(t, 1, f.sdk.Calls("Lock"))

	r = f.do(http.MethodPost, routeAPI+"/garages/a/unlock", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, 2, f.sdk.Calls("Unlock"))

	r = f.do(http.MethodPost, routeAPI+"/garages/a/disconnect", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	assert.Nil(t, f.connection.ConnectedLock())

	r = f.do(http.MethodPost, routeAPI+"/garages/a/lock", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, 2, f.sdk.Calls("Connect"))
	assert.Equal(t, 2, f.sdk.Calls("Lock"))
}

// Tests discovery control and claim.
func TestDiscoveryAPI(t *testing.T) {
	f := getFixture(t)
	defer f.connection.StopScanning()

	r := f.do(http.MethodPost, routeAPI+"/discovery/start", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	assert.True(t, f.connection.IsScanning())

	f.sdk.Discovery <- &lock.DiscoveryEvent{Type: lock.DiscoveryDiscovered,
		Lock: &lock.DiscoveredLock{HardwareID: "c", Name: "Back Door"}}
	f.sdk.Discovery <- &lock.DiscoveryEvent{Type: lock.DiscoveryDiscovered,
		Lock: &lock.DiscoveredLock{HardwareID: "d", Name: "Side", IsClaimed: true}}

	assert.Eventually(t, func() bool {
		return 2 == len(f.connection.DiscoveredLocks())
	}, waitFor, tick)

	resp := &discoveryResponse{}
	r = f.do(http.MethodGet, routeAPI+"/discovery", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), resp))
	assert.True(t, resp.Scanning)
	assert.Len(t, resp.Locks, 2)
	require.Len(t, resp.Unclaimed, 1)
	assert.Equal(t, "c", resp.Unclaimed[0].HardwareID)

	resp = &discoveryResponse{}
	r = f.do(http.MethodGet, routeAPI+"/discovery?name=BACK*", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), resp))
	require.Len(t, resp.Locks, 1)
	assert.Equal(t, "c", resp.Locks[0].HardwareID)

	r = f.do(http.MethodGet, routeAPI+"/discovery?name=[", "admin", "")
	assert.Equal(t, http.StatusBadRequest, r.Code)

	r = f.do(http.MethodPost, routeAPI+"/discovery/zz/claim", "admin", "")
	assert.Equal(t, http.StatusNotFound, r.Code)

	f.sdk.Set(func(s *mocks.FakeSDK) {
		s.Claimable = []*lock.ClaimableLock{{ID: "p1", Name: "Placeholder"}}
	})
	r = f.do(http.MethodPost, routeAPI+"/discovery/c/claim", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, 1, f.sdk.Calls("Claim"))
	assert.Nil(t, f.connection.ConnectedLock())

	r = f.do(http.MethodPost, routeAPI+"/discovery/stop", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	assert.False(t, f.connection.IsScanning())
}

// Tests error clearing.
func TestClearErrorAPI(t *testing.T) {
	f := getFixture(t)
	f.state.SetError("boom")

	r := f.do(http.MethodDelete, routeAPI+"/error", "admin", "")
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "", f.state.LastError())
}

// Tests CORS headers.
func TestCORS(t *testing.T) {
	f := getFixture(t)
	settings := mocks.FakeNewSettings(nil, nil, nil, nil)
	settings.AppSettings().AllowedOrigins = []string{"http://garage.local"}

	handler := NewServer(&ConstructServer{
		Settings:   settings,
		State:      f.state,
		Session:    f.session,
		Connection: f.connection,
		Inventory:  f.inventory,
	}).Router()

	req := httptest.NewRequest(http.MethodGet, "/pub/ping", nil)
	req.Header.Set("Origin", "http://garage.local")
	r := httptest.NewRecorder()
	handler.ServeHTTP(r, req)

	assert.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "http://garage.local", r.Header().Get("Access-Control-Allow-Origin"))
}
