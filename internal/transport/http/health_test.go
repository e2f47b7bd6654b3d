package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		check  HealthCheck
		status int
		body   string
	}{
		{name: "no check", status: http.StatusOK, body: "ok"},
		{name: "store up", check: func(context.Context) error { return nil }, status: http.StatusOK, body: "ok"},
		{name: "store down", check: func(context.Context) error { return errors.New("down") }, status: http.StatusServiceUnavailable, body: "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			HandleHealth(tt.check)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			var resp healthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != tt.body {
				t.Fatalf("expected %q, got %q", tt.body, resp.Status)
			}
		})
	}
}
