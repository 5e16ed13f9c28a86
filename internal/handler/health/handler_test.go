package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/health/db", h.HealthDB)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHealth(t *testing.T) {
	w, body := serve(t, NewHandler(nil, false), "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", body.Status)
}

func TestHealthDB(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	w, body := serve(t, NewHandler(ok, false), "/health/db")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", body.Status)

	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })
	w, body = serve(t, NewHandler(down, false), "/health/db")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, body.Message, "connection refused")

	w, body = serve(t, NewHandler(down, true), "/health/db")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NotContains(t, body.Message, "connection refused")

	w, _ = serve(t, NewHandler(nil, false), "/health/db")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
