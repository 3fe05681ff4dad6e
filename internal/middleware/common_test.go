package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestRegisterAppliesConfiguredCORSOrigin(t *testing.T) {
	app := fiber.New()
	Register(app, Config{AllowOrigins: "https://classroom.example.com"})
	app.Get("/api/v1/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Origin", "https://classroom.example.com")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "https://classroom.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRegisterDefaultsToAnyOrigin(t *testing.T) {
	app := fiber.New()
	Register(app, Config{})
	app.Get("/api/v1/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
