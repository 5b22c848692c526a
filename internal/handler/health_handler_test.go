package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lingua-go-api/internal/config"
	"github.com/noah-isme/lingua-go-api/internal/handler"
)

func TestHealthCheck(t *testing.T) {
	cfg := config.Config{AppName: "Lingua API", AppEnv: "test"}
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	app := fiber.New()
	app.Get("/ok", handler.HealthCheck(cfg, map[string]handler.HealthProbe{"postgres": healthy}))
	app.Get("/degraded", handler.HealthCheck(cfg, map[string]handler.HealthProbe{"postgres": healthy, "redis": broken}))

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var ok struct {
		Data handler.HealthResponse `json:"data"`
	}
	decodeResponse(t, resp, &ok)
	require.Equal(t, "ok", ok.Data.Status)
	require.Equal(t, "Lingua API", ok.Data.Service)
	require.Equal(t, "up", ok.Data.Dependencies["postgres"])

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/degraded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var degraded struct {
		Details handler.HealthResponse `json:"details"`
	}
	decodeResponse(t, resp, &degraded)
	require.Equal(t, "degraded", degraded.Details.Status)
	require.Equal(t, "down", degraded.Details.Dependencies["redis"])
}
