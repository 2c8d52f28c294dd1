package server

import (
	"net/http"

	"github.com/go-home-io/garage/providers"
	"github.com/go-home-io/garage/systems/session"
	"github.com/go-home-io/garage/systems/state"
	"github.com/gorilla/mux"
)

// Returns all garages available for the user.
func (s *GarageServer) getGarages(writer http.ResponseWriter, request *http.Request) {
	usr := getContextUser(request)
	result := make([]*providers.GarageStatus, 0)
	for _, v := range s.inventory.Garages() {
		if !usr.GarageGet(v.ID) {
			continue
		}

		st, err := s.inventory.Status(v.ID)
		if err != nil {
			continue
		}

		result = append(result, st)
	}

	respond(writer, result)
}

// Returns single garage status.
func (s *GarageServer) getGarage(writer http.ResponseWriter, request *http.Request) {
	id := mux.Vars(request)[string(urlGarageID)]
	if !getContextUser(request).GarageGet(id) {
		respondForbidden(writer)
		return
	}

	st, err := s.inventory.Status(id)
	if err != nil {
		respondOkError(writer, err)
		return
	}

	respond(writer, st)
}

// Re-fetches accesses from the server.
// Inventory is loaded only for an active session.
func (s *GarageServer) refreshGarages(writer http.ResponseWriter, request *http.Request) {
	if current := s.session.AppState(); state.AppActive != current {
		respondOkError(writer, &session.ErrInvalidTransition{State: current})
		return
	}

	respondOkError(writer, s.inventory.LoadGaragesAfterActivation(request.Context()))
}

// Executes garage command if it's allowed for the user.
func (s *GarageServer) garageCommand(writer http.ResponseWriter, request *http.Request) {
	vars := mux.Vars(request)
	respondOkError(writer, s.commandInvokeGarageCommand(request.Context(), getContextUser(request),
		vars[string(urlGarageID)], vars[string(urlCommandName)]))
}
