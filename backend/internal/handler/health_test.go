package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/itchan-dev/anonboard/shared/config"
	"github.com/stretchr/testify/assert"
)

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func TestHealth(t *testing.T) {
	h := &Handler{
		cfg: &config.Config{},
		health: &MockHealthChecker{PingFunc: func(ctx context.Context) error {
			t.Fatal("liveness must not ping storage")
			return nil
		}},
	}

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestReady(t *testing.T) {
	tests := []struct {
		name         string
		pingErr      error
		expectedCode int
		expectedBody string
	}{
		{name: "store reachable", expectedCode: http.StatusOK, expectedBody: "ok"},
		{name: "store down", pingErr: errors.New("connection refused"), expectedCode: http.StatusServiceUnavailable, expectedBody: "database unavailable"},
		{name: "ping timed out", pingErr: context.DeadlineExceeded, expectedCode: http.StatusServiceUnavailable, expectedBody: "database unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hadDeadline bool
			h := &Handler{
				cfg: &config.Config{},
				health: &MockHealthChecker{PingFunc: func(ctx context.Context) error {
					_, hadDeadline = ctx.Deadline()
					return tt.pingErr
				}},
			}

			rr := httptest.NewRecorder()
			h.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedBody, rr.Body.String())
			assert.True(t, hadDeadline, "ping must run with a deadline")
		})
	}
}
