package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/taskpilot/taskpilot/internal/agent"
)

// MaxMessageLength is the maximum length for a chat message
const MaxMessageLength = 2000

// AgentHandler handles conversational requests against the agent engine
type AgentHandler struct {
	engine *agent.Engine
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(engine *agent.Engine) *AgentHandler {
	return &AgentHandler{engine: engine}
}

// RegisterRoutes registers agent routes on the given router
// The router should already have the /agent prefix
func (h *AgentHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/message", h.HandleMessage).Methods("POST")
	r.HandleFunc("/suggest", h.Suggest).Methods("GET")
}

// MessageRequest represents an incoming chat turn. Exactly one of Message
// and TaskID must be set; TaskID requests direct completion without
// classification.
type MessageRequest struct {
	Message string `json:"message,omitempty"`
	TaskID  string `json:"task_id,omitempty"`
}

// MessageResponse carries the agent's reply for a single turn
type MessageResponse struct {
	Response string `json:"response"`
	Error    bool   `json:"error"`
}

// HandleMessage handles POST /agent/message
func (h *AgentHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON in request body")
		return
	}

	hasMessage := strings.TrimSpace(req.Message) != ""
	hasTaskID := req.TaskID != ""
	if hasMessage == hasTaskID {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Provide exactly one of message or task_id")
		return
	}

	if hasTaskID {
		id, err := uuid.Parse(req.TaskID)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "task_id must be a valid UUID")
			return
		}
		reply, isErr := h.engine.CompleteTask(r.Context(), id)
		respondJSON(w, http.StatusOK, MessageResponse{Response: reply, Error: isErr})
		return
	}

	if len(req.Message) > MaxMessageLength {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Message too long")
		return
	}

	reply, isErr := h.engine.HandleMessage(r.Context(), req.Message)
	respondJSON(w, http.StatusOK, MessageResponse{Response: reply, Error: isErr})
}

// Suggest handles GET /agent/suggest
func (h *AgentHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	reply, isErr := h.engine.Suggest(r.Context())
	respondJSON(w, http.StatusOK, MessageResponse{Response: reply, Error: isErr})
}
