package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgard/nutriplan/internal/database"
	"github.com/edgard/nutriplan/internal/logger"
)

type pingStore struct {
	database.Store
	err error
}

func (p pingStore) Ping(context.Context) error { return p.err }

func TestMetricsHandler(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		store      pingStore
		path       string
		wantStatus int
		wantBody   string
	}{
		{"healthy", pingStore{}, "/healthz", http.StatusOK, "ok"},
		{"database down", pingStore{err: errors.New("closed")}, "/healthz", http.StatusServiceUnavailable, "not ready"},
		{"metrics", pingStore{}, "/metrics", http.StatusOK, "go_goroutines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			newMetricsHandler(tt.store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestServeMetrics_StopsOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := serveMetrics(ctx, logger.Discard(), "127.0.0.1:0", http.NotFoundHandler())

	assert.NoError(t, err)
}
