package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func serveHealth(t *testing.T, db Pinger, method string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	NewHealthHandler("test-service", "1.0.0", db).RegisterRoutes(router)

	req, err := http.NewRequest(method, "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var response HealthResponse
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	}
	return rr, response
}

func TestHealthCheck(t *testing.T) {
	rr, response := serveHealth(t, nil, http.MethodGet)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "test-service", response.Service)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Equal(t, "disabled", response.DB)
}

func TestHealthCheckDatabaseStatus(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		_, response := serveHealth(t, pingerFunc(func(context.Context) error { return nil }), http.MethodGet)
		assert.Equal(t, "up", response.DB)
	})

	t.Run("down", func(t *testing.T) {
		rr, response := serveHealth(t, pingerFunc(func(context.Context) error { return errors.New("refused") }), http.MethodGet)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "down", response.DB)
	})

	t.Run("ping is bounded", func(t *testing.T) {
		var hasDeadline bool
		serveHealth(t, pingerFunc(func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		}), http.MethodGet)
		assert.True(t, hasDeadline)
	})
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	rr, _ := serveHealth(t, nil, http.MethodPost)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
