package server

import (
	"net/http"
	"strings"

	"github.com/go-home-io/garage/plugins/lock"
	"github.com/gobwas/glob"
	"github.com/gorilla/mux"
)

// Discovery response.
type discoveryResponse struct {
	Scanning  bool                   `json:"scanning"`
	Locks     []*lock.DiscoveredLock `json:"locks"`
	Unclaimed []*lock.DiscoveredLock `json:"unclaimed"`
}

// Returns discovered locks, optionally filtered by name glob.
func (s *GarageServer) getDiscovery(writer http.ResponseWriter, request *http.Request) {
	var filter glob.Glob
	if name := request.URL.Query().Get(queryName); "" != name {
		g, err := glob.Compile(strings.ToLower(name))
		if err != nil {
			respondOkError(writer, &ErrBadRequest{})
			return
		}

		filter = g
	}

	respond(writer, &discoveryResponse{
		Scanning:  s.connection.IsScanning(),
		Locks:     filterLocks(s.connection.DiscoveredLocks(), filter),
		Unclaimed: filterLocks(s.inventory.UnclaimedLocks(), filter),
	})
}

// Starts scanning.
func (s *GarageServer) startDiscovery(writer http.ResponseWriter, _ *http.Request) {
	s.connection.StartScanning()
	respondOk(writer)
}

// Stops scanning.
func (s *GarageServer) stopDiscovery(writer http.ResponseWriter, _ *http.Request) {
	s.connection.StopScanning()
	respondOk(writer)
}

// Claims discovered lock.
func (s *GarageServer) claim(writer http.ResponseWriter, request *http.Request) {
	id := mux.Vars(request)[string(urlLockID)]
	for _, v := range s.connection.DiscoveredLocks() {
		if v.HardwareID == id {
			respondOkError(writer, s.inventory.ClaimDevice(request.Context(), v))
			return
		}
	}

	respondOkError(writer, &ErrUnknownLock{ID: id})
}

// Filters locks by display name.
func filterLocks(locks []*lock.DiscoveredLock, filter glob.Glob) []*lock.DiscoveredLock {
	result := make([]*lock.DiscoveredLock, 0, len(locks))
	for _, v := range locks {
		if nil == filter || filter.Match(strings.ToLower(v.DisplayName())) {
			result = append(result, v)
		}
	}

	return result
}
