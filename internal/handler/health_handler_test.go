package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-go-api/internal/config"
	"github.com/noah-isme/classroom-go-api/internal/handler"
)

func TestHealthCheckReportsServiceInfo(t *testing.T) {
	app := fiber.New()
	cfg := config.Config{AppName: "Classroom API", AppEnv: "test"}
	app.Get("/api/v1/health", handler.HealthCheck(cfg))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                   `json:"success"`
		Data    handler.HealthResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "ok", response.Data.Status)
	require.Equal(t, "Classroom API", response.Data.Service)
	require.Equal(t, "test", response.Data.Environment)
	require.GreaterOrEqual(t, response.Data.UptimeSeconds, int64(0))
}
