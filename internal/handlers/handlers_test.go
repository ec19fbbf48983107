package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/taskpilot/taskpilot/internal/agent"
	"github.com/taskpilot/taskpilot/internal/models"
	"github.com/taskpilot/taskpilot/internal/storage"
)

var handlerTestNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) (*mux.Router, *agent.Engine) {
	t.Helper()

	store := storage.NewMemoryStore()
	engine, err := agent.NewEngine(context.Background(), store, nil, agent.Options{
		Clock: func() time.Time { return handlerTestNow },
	})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	router := mux.NewRouter()
	NewAgentHandler(engine).RegisterRoutes(router.PathPrefix("/agent").Subrouter())
	NewTaskHandler(engine).RegisterRoutes(router.PathPrefix("/tasks").Subrouter())
	NewEventHandler(engine).RegisterRoutes(router.PathPrefix("/events").Subrouter())
	router.HandleFunc("/healthz", NewHealthChecker(store).HealthCheck).Methods("GET")
	return router, engine
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) map[string]any {
	t.Helper()

	var envelope map[string]any
	if err := json.Unmarshal(body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return envelope
}

func TestCreateTask_ThenList(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	payload := `{"description":"write report","priority":2,"estimated_minutes":30}`
	r := httptest.NewRequest("POST", "/tasks", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	r = httptest.NewRequest("GET", "/tasks", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want %d", w.Code, http.StatusOK)
	}

	envelope := decodeEnvelope(t, w.Body)
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data in envelope: %v", envelope)
	}
	if total, _ := data["total"].(float64); total != 1 {
		t.Errorf("total = %v, want 1", data["total"])
	}
}

func TestCreateTask_ValidationError(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	payload := `{"description":"","priority":2,"estimated_minutes":30}`
	r := httptest.NewRequest("POST", "/tasks", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	envelope := decodeEnvelope(t, w.Body)
	if success, _ := envelope["success"].(bool); success {
		t.Error("expected success=false in error envelope")
	}
}

func TestCompleteTask_NotFound(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	r := httptest.NewRequest("POST", "/tasks/6a6e2a1c-8b5d-4a6e-9f1e-000000000000/complete", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCompleteTask_InvalidID(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	r := httptest.NewRequest("POST", "/tasks/not-a-uuid/complete", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCompleteTask_Succeeds(t *testing.T) {
	t.Parallel()

	router, engine := newTestRouter(t)

	task, err := engine.AddTask(context.Background(), "file expenses", 3, 15)
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}

	r := httptest.NewRequest("POST", "/tasks/"+task.ID.String()+"/complete", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestAgentMessage_RequiresExactlyOneField(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"neither", `{}`},
		{"both", `{"message":"hi","task_id":"6a6e2a1c-8b5d-4a6e-9f1e-000000000000"}`},
		{"blank message", `{"message":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("POST", "/agent/message", bytes.NewBufferString(tt.payload))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestAgentMessage_TaskIDPath(t *testing.T) {
	t.Parallel()

	router, engine := newTestRouter(t)

	task, err := engine.AddTask(context.Background(), "send invite", 2, 10)
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}

	payload := `{"task_id":"` + task.ID.String() + `"}`
	r := httptest.NewRequest("POST", "/agent/message", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	envelope := decodeEnvelope(t, w.Body)
	data, _ := envelope["data"].(map[string]any)
	if data == nil {
		t.Fatalf("missing data in envelope: %v", envelope)
	}
	if isErr, _ := data["error"].(bool); isErr {
		t.Errorf("unexpected error flag, response = %v", data["response"])
	}
}

func TestAgentSuggest_EmptyList(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	r := httptest.NewRequest("GET", "/agent/suggest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestCreateEvent_RejectsInvertedInterval(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	payload := `{"summary":"standup","start":"2025-06-02T10:00:00Z","end":"2025-06-02T09:00:00Z"}`
	r := httptest.NewRequest("POST", "/events", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCreateEvent_ThenList(t *testing.T) {
	t.Parallel()

	router, engine := newTestRouter(t)

	payload := `{"summary":"standup","start":"2025-06-02T10:00:00Z","end":"2025-06-02T10:30:00Z"}`
	r := httptest.NewRequest("POST", "/events", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	events := engine.Events()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	want := models.CalendarEvent{
		Summary:   "standup",
		StartTime: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC),
	}
	if !events[0].StartTime.Equal(want.StartTime) || !events[0].EndTime.Equal(want.EndTime) || events[0].Summary != want.Summary {
		t.Errorf("event = %+v, want %+v", events[0], want)
	}
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	r := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want %q", resp.Status, "healthy")
	}
}

func TestHealthCheck_Extended(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	r := httptest.NewRequest("GET", "/healthz?mode=extended", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Checks["storage"] != "healthy" {
		t.Errorf("storage check = %q, want %q", resp.Checks["storage"], "healthy")
	}
}
