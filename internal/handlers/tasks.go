package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/taskpilot/taskpilot/internal/agent"
	"github.com/taskpilot/taskpilot/internal/models"
	"github.com/taskpilot/taskpilot/internal/scheduler"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	engine *agent.Engine
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(engine *agent.Engine) *TaskHandler {
	return &TaskHandler{engine: engine}
}

// RegisterRoutes registers task routes on the given router
// The router should already have the /tasks prefix
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/{id}/complete", h.CompleteTask).Methods("POST")
}

// CreateTaskRequest represents a create task request
type CreateTaskRequest struct {
	Description      string `json:"description"`
	Priority         int    `json:"priority"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// ListTasksResponse represents the response for listing tasks
type ListTasksResponse struct {
	Tasks []models.Task `json:"tasks"`
	Total int           `json:"total"`
}

// ListTasks lists pending tasks in priority order. pending=false returns
// the raw list in append order, completed tasks included.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := h.engine.Tasks()
	if r.URL.Query().Get("pending") != "false" {
		tasks = scheduler.SortForListing(tasks)
	}

	respondJSON(w, http.StatusOK, ListTasksResponse{Tasks: tasks, Total: len(tasks)})
}

// CreateTask handles POST /tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON in request body")
		return
	}

	task, err := h.engine.AddTask(r.Context(), req.Description, req.Priority, req.EstimatedMinutes)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create task")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// CompleteTask handles POST /tasks/{id}/complete
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}

	reply, isErr := h.engine.CompleteTask(r.Context(), id)
	if isErr {
		respondJSONError(w, http.StatusNotFound, "Not Found", reply)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Response: reply})
}
