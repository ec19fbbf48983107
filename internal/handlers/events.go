package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/taskpilot/taskpilot/internal/agent"
	"github.com/taskpilot/taskpilot/internal/models"
)

// EventHandler handles calendar event requests
type EventHandler struct {
	engine *agent.Engine
}

// NewEventHandler creates a new event handler
func NewEventHandler(engine *agent.Engine) *EventHandler {
	return &EventHandler{engine: engine}
}

// RegisterRoutes registers event routes on the given router
// The router should already have the /events prefix
func (h *EventHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListEvents).Methods("GET")
	r.HandleFunc("", h.CreateEvent).Methods("POST")
}

// CreateEventRequest represents a create event request
type CreateEventRequest struct {
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events := h.engine.Events()
	respondJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"total":  len(events),
	})
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON in request body")
		return
	}

	if strings.TrimSpace(req.Summary) == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Summary is required")
		return
	}

	event := models.CalendarEvent{
		Summary:   strings.TrimSpace(req.Summary),
		StartTime: req.Start,
		EndTime:   req.End,
	}
	if err := h.engine.AddEvent(r.Context(), event); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, event)
}
