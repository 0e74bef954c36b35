package api

import (
	"github.com/gorilla/mux"

	"github.com/buehner/ivao-tracker/models"
	"github.com/buehner/ivao-tracker/types"
)

// Tracker exposes the collector state the API reports on.
type Tracker interface {
	Stats() types.CollectionStats
}

// Store is the read-only persistence slice of the API.
type Store interface {
	ActiveSessionList() ([]*models.PilotSession, error)
	AirportByCode(code string) (*models.Airport, error)
}

// NewRouter creates and configures a new router with all API endpoints.
func NewRouter(tracker Tracker, store Store) *mux.Router {
	r := mux.NewRouter()
	h := &handler{tracker: tracker, store: store}

	r.HandleFunc("/health", h.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tracker/stats", h.GetTrackerStats).Methods("GET")
	api.HandleFunc("/sessions/active", h.GetActiveSessions).Methods("GET")
	api.HandleFunc("/airports/{code}", h.GetAirport).Methods("GET")

	return r
}
