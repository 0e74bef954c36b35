package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/buehner/ivao-tracker/models"
)

type handler struct {
	tracker Tracker
	store   Store
}

func (h *handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) GetTrackerStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Stats())
}

func (h *handler) GetActiveSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ActiveSessionList()
	if err != nil {
		log.Error().Err(err).Msg("listing active sessions")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []*models.PilotSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *handler) GetAirport(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	airport, err := h.store.AirportByCode(code)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "airport not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("looking up airport")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, airport)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
