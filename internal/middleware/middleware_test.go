package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMaxRequestSize_RejectsOversizedBody(t *testing.T) {
	t.Parallel()

	handler := MaxRequestSize(16)(okHandler())

	body := strings.NewReader(strings.Repeat("x", 64))
	r := httptest.NewRequest("POST", "/agent/message", body)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestMaxRequestSize_AllowsSmallBody(t *testing.T) {
	t.Parallel()

	handler := MaxRequestSize(1024)(okHandler())

	r := httptest.NewRequest("POST", "/agent/message", strings.NewReader(`{"message":"hi"}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRateLimit_InvalidFormat(t *testing.T) {
	t.Parallel()

	if _, err := RateLimit("not-a-rate"); err == nil {
		t.Error("expected error for malformed rate string")
	}
}

func TestRateLimit_EnforcesLimit(t *testing.T) {
	t.Parallel()

	mw, err := RateLimit("2-M")
	if err != nil {
		t.Fatalf("RateLimit() error = %v", err)
	}
	handler := mw(okHandler())

	var last int
	for i := 0; i < 3; i++ {
		r := httptest.NewRequest("GET", "/tasks", nil)
		r.RemoteAddr = "203.0.113.7:9999"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		last = w.Code
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want %d", last, http.StatusTooManyRequests)
	}
}

func TestLogging_RecordsHandlerStatus(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	handler := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	r := httptest.NewRequest("POST", "/tasks", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d http_request entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if got, _ := fields["status_code"].(int64); got != http.StatusCreated {
		t.Errorf("logged status_code = %v, want %d", fields["status_code"], http.StatusCreated)
	}
	if got, _ := fields["method"].(string); got != "POST" {
		t.Errorf("logged method = %v, want POST", fields["method"])
	}
}

func TestCORSFromEnv_AllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()

	handler := CORSFromEnv("https://app.example.com")(okHandler())

	r := httptest.NewRequest("GET", "/tasks", nil)
	r.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "https://app.example.com")
	}
}
