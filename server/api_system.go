package server

import (
	"encoding/json"
	"net/http"
)

// Login request body.
type loginRequest struct {
	Code string `json:"code"`
}

// Performs quick check whether system is OK.
func (s *GarageServer) ping(writer http.ResponseWriter, _ *http.Request) {
	if nil != s.bus && s.bus.Ping() != nil {
		respondError(writer, http.StatusInternalServerError, "State bus unavailable")
		return
	}

	respondOk(writer)
}

// Responds with the current session state.
func (s *GarageServer) getState(writer http.ResponseWriter, request *http.Request) {
	respond(writer, filterSnapshot(getContextUser(request), s.state.Snapshot()))
}

// Activates operating device with invitation code.
func (s *GarageServer) login(writer http.ResponseWriter, request *http.Request) {
	req := &loginRequest{}
	if err := json.NewDecoder(request.Body).Decode(req); err != nil {
		respondOkError(writer, &ErrBadRequest{})
		return
	}

	respondOkError(writer, s.session.Login(request.Context(), req.Code))
}

// Deactivates operating device.
func (s *GarageServer) logout(writer http.ResponseWriter, request *http.Request) {
	s.session.Logout(request.Context())
	respondOk(writer)
}

// Clears the latest error.
func (s *GarageServer) clearError(writer http.ResponseWriter, _ *http.Request) {
	s.state.ClearError()
	respondOk(writer)
}
