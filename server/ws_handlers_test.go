package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-home-io/garage/systems/state"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, srv *httptest.Server, usr string) *websocket.Conn {
	header := http.Header{}
	if "" != usr {
		header.Set("Authorization", authHeader(usr))
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + routeAPI + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if nil != resp && nil != resp.Body {
		resp.Body.Close() // nolint: errcheck
	}
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))

	return conn
}

// Tests WS state updates and commands.
func TestWS(t *testing.T) {
	f := getFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	conn := dialWS(t, srv, "admin")
	defer conn.Close() // nolint: errcheck

	snap := &state.Snapshot{}
	require.NoError(t, conn.ReadJSON(snap))
	assert.Equal(t, state.AppLoading, snap.AppState)
	assert.Equal(t, "", snap.Error)

	f.state.SetError("boom")
	snap = &state.Snapshot{}
	require.NoError(t, conn.ReadJSON(snap))
	assert.Equal(t, "boom", snap.Error)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(msg))

	require.NoError(t, conn.WriteJSON(&wsCmd{ID: "x", Cmd: cmdConnect}))
	result := &wsResult{}
	require.NoError(t, conn.ReadJSON(result))
	assert.Equal(t, "x", result.ID)
	assert.Equal(t, "ERROR", result.Status)
	assert.Equal(t, "unknown garage x", result.Problem)
}

// Tests WS access for restricted user.
func TestWSGuest(t *testing.T) {
	f := getOnlineFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	conn := dialWS(t, srv, "guest")
	defer conn.Close() // nolint: errcheck

	snap := &state.Snapshot{}
	require.NoError(t, conn.ReadJSON(snap))
	require.Len(t, snap.Garages, 1)
	assert.Equal(t, "a", snap.Garages[0].ID)
	assert.Empty(t, snap.Discovered)

	require.NoError(t, conn.WriteJSON(&wsCmd{ID: "a", Cmd: cmdOperate}))
	result := &wsResult{}
	require.NoError(t, conn.ReadJSON(result))
	assert.Equal(t, "ERROR", result.Status)
	assert.Equal(t, 0, f.sdk.Calls("Connect"))
}

// Tests WS rejects anonymous connection.
func TestWSUnauthorized(t *testing.T) {
	f := getFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + routeAPI + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
