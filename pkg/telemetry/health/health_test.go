package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestReadinessAllHealthy(t *testing.T) {
	checker := New(time.Second)
	checker.Register("tracking", func(ctx context.Context) error { return nil })
	checker.Register("journal", func(ctx context.Context) error { return nil })

	status := checker.Readiness(context.Background())

	if status.Status != "ready" {
		t.Errorf("Status = %q, want %q", status.Status, "ready")
	}
	if len(status.Checks) != 2 {
		t.Errorf("Checks has %d entries, want 2", len(status.Checks))
	}
	for name, result := range status.Checks {
		if result.Status != "ok" {
			t.Errorf("check %q status = %q, want %q", name, result.Status, "ok")
		}
	}
}

func TestReadinessDegraded(t *testing.T) {
	checker := New(time.Second)
	checker.Register("tracking", func(ctx context.Context) error { return nil })
	checker.Register("avatar", func(ctx context.Context) error {
		return errors.New("endpoint unreachable")
	})

	status := checker.Readiness(context.Background())

	if status.Status != "degraded" {
		t.Errorf("Status = %q, want %q", status.Status, "degraded")
	}
	if status.Checks["avatar"].Message != "endpoint unreachable" {
		t.Errorf("avatar message = %q, want the failure", status.Checks["avatar"].Message)
	}
}

func TestReadinessTimeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	checker.Register("slow", func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	status := checker.Readiness(context.Background())

	if status.Status != "degraded" {
		t.Errorf("Status = %q, want %q", status.Status, "degraded")
	}
}

func TestReadinessNoChecks(t *testing.T) {
	status := New(0).Readiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("Status with no checks = %q, want %q", status.Status, "ready")
	}
}

func TestReadinessHandlerStatusCodes(t *testing.T) {
	checker := New(time.Second)

	recorder := httptest.NewRecorder()
	checker.ReadinessHandler()(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if recorder.Code != http.StatusOK {
		t.Errorf("healthy readiness status = %d, want 200", recorder.Code)
	}

	checker.Register("broken", func(ctx context.Context) error { return errors.New("down") })
	recorder = httptest.NewRecorder()
	checker.ReadinessHandler()(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if recorder.Code != http.StatusServiceUnavailable {
		t.Errorf("degraded readiness status = %d, want 503", recorder.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	checker := New(time.Second)

	recorder := httptest.NewRecorder()
	checker.LivenessHandler()(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("liveness status = %d, want 200", recorder.Code)
	}

	var status Status
	if err := json.Unmarshal(recorder.Body.Bytes(), &status); err != nil {
		t.Fatalf("liveness body is not valid JSON: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("liveness body status = %q, want %q", status.Status, "ok")
	}
}

func TestLivenessHandlerRejectsPost(t *testing.T) {
	checker := New(time.Second)

	recorder := httptest.NewRecorder()
	checker.LivenessHandler()(recorder, httptest.NewRequest(http.MethodPost, "/health", nil))

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST liveness status = %d, want 405", recorder.Code)
	}
}

func TestMount(t *testing.T) {
	mux := http.NewServeMux()
	Mount(mux, New(time.Second), "1.2.3", "abc123", "2026-01-01")

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.Unmarshal(recorder.Body.Bytes(), &info); err != nil {
		t.Fatalf("version body is not valid JSON: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" {
		t.Errorf("version info = %+v", info)
	}
}
