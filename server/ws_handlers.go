package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
	"github.com/gorilla/websocket"
)

// Incoming WS command.
type wsCmd struct {
	ID  string `json:"id"`
	Cmd string `json:"cmd"`
}

// WS command result.
type wsResult struct {
	ID      string `json:"id"`
	Cmd     string `json:"cmd"`
	Status  string `json:"status"`
	Problem string `json:"problem,omitempty"`
}

// Serialized WS writer.
type wsWriter struct {
	sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) writeJSON(v interface{}) error {
	w.Lock()
	defer w.Unlock()
	return w.conn.WriteJSON(v)
}

func (w *wsWriter) writeMessage(mt int, data []byte) error {
	w.Lock()
	defer w.Unlock()
	return w.conn.WriteMessage(mt, data)
}

// Handles WS upgrade request.
func (s *GarageServer) handleWS(writer http.ResponseWriter, request *http.Request) {
	usr := getContextUser(request)
	c, err := s.wsSettings.Upgrade(writer, request, nil)
	if err != nil {
		s.logger.Error("Failed to establish a WS connection", err, common.LogUserNameToken, usr.Name())
		return
	}

	go s.processWSConnection(c, usr)
}

// Processes incoming WS connections.
// Every state update is pushed to the client.
func (s *GarageServer) processWSConnection(conn *websocket.Conn, usr providers.IAuthenticatedUser) {
	defer conn.Close() // nolint: errcheck

	w := &wsWriter{conn: conn}
	stop := make(chan bool, 1)

	subID, updates := s.fanOut.SubscribeStateUpdates()
	defer s.fanOut.UnSubscribeStateUpdates(subID)

	go s.processIncomingWSMessages(w, stop, usr)

	if err := w.writeJSON(filterSnapshot(usr, s.state.Snapshot())); err != nil {
		s.logger.Warn("Failed to send WS state", common.LogUserNameToken, usr.Name())
	}

	for {
		select {
		case <-stop:
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}

			if err := w.writeJSON(filterSnapshot(usr, snap)); err != nil {
				s.logger.Warn("Failed to send WS state", common.LogUserNameToken, usr.Name())
			}
		}
	}
}

// Processes incoming WS messages.
func (s *GarageServer) processIncomingWSMessages(w *wsWriter, stop chan bool, usr providers.IAuthenticatedUser) {
	defer w.conn.Close() // nolint: errcheck
	for {
		mt, message, err := w.conn.ReadMessage()
		if err != nil {
			s.logger.Info("Closing WS connection for user", common.LogUserNameToken, usr.Name())
			stop <- true
			return
		}

		// Ping request comes as a un-wrapped string
		if "ping" == string(message) {
			w.writeMessage(mt, []byte("pong")) // nolint: errcheck
			continue
		}

		cmd := &wsCmd{}
		if err := json.Unmarshal(message, cmd); err != nil {
			s.logger.Error("Failed to un-marshal WS command", err, common.LogUserNameToken, usr.Name())
			continue
		}

		result := &wsResult{ID: cmd.ID, Cmd: cmd.Cmd, Status: "OK"}
		err = s.commandInvokeGarageCommand(context.Background(), usr, cmd.ID, cmd.Cmd)
		if err != nil {
			result.Status = "ERROR"
			result.Problem = err.Error()
		}

		w.writeJSON(result) // nolint: errcheck
	}
}
