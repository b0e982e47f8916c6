package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRemoteCheckerHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRemoteChecker(server.URL)
	if err := checker.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v, want nil", err)
	}
}

func TestRemoteCheckerUnhealthyStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	checker := NewRemoteChecker(server.URL)
	if err := checker.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() = nil, want error for 502 response")
	}
}

func TestRemoteCheckerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	checker := NewRemoteChecker(server.URL)
	if err := checker.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() = nil, want error for closed server")
	}
}

func TestRemoteCheckerMissingURL(t *testing.T) {
	checker := NewRemoteChecker("")
	if err := checker.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() = nil, want error for empty URL")
	}
}

func TestRemoteCheckerContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	checker := NewRemoteChecker(server.URL)
	if err := checker.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() = nil, want error for cancelled context")
	}
}
