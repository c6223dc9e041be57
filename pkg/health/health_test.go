package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcast/pkg/health"
)

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	tests := []struct {
		name       string
		checks     health.Checks
		wantCode   int
		wantStatus string
		failing    []string
	}{
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: health.StatusHealthy,
		},
		{
			name:       "all healthy",
			checks:     health.Checks{"redis": ok, "postgres": ok},
			wantCode:   http.StatusOK,
			wantStatus: health.StatusHealthy,
		},
		{
			name:       "one failing",
			checks:     health.Checks{"redis": ok, "postgres": down},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: health.StatusUnhealthy,
			failing:    []string{"postgres"},
		},
		{
			name:       "timeout",
			checks:     health.Checks{"transport": slow},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: health.StatusUnhealthy,
			failing:    []string{"transport"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := health.ReadinessHandler(tt.checks, health.WithTimeout(20*time.Millisecond))
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/health/ready?format=json", nil))

			require.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp health.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, resp.Checks, len(tt.checks))
			for _, name := range tt.failing {
				assert.Equal(t, health.StatusUnhealthy, resp.Checks[name].Status)
				assert.NotEmpty(t, resp.Checks[name].Error)
			}
		})
	}
}

func TestReadinessHandler_PlainText(t *testing.T) {
	t.Parallel()

	h := health.ReadinessHandler(health.Checks{
		"redis": func(context.Context) error { return errors.New("down") },
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Service Unavailable", rec.Body.String())
}
