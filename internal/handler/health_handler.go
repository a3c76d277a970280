package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-survey-api/internal/config"
	"github.com/noah-isme/gema-survey-api/internal/utils"
)

const backendDisabled = "disabled"

// HealthResponse reports the service identity and the backends it was started with.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Store       string    `json:"store"`
	Cache       string    `json:"cache"`
	Events      string    `json:"events"`
	Import      bool      `json:"import_enabled"`
}

// HealthCheck returns the liveness handler.
func HealthCheck(cfg config.Config) fiber.Handler {
	cache := backendDisabled
	if cfg.RedisURL != "" {
		cache = "redis"
	}
	events := backendDisabled
	if cfg.NATSURL != "" {
		events = "nats:" + cfg.EventsChannel
	}

	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "service healthy", HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Store:       cfg.DatabaseDriver,
			Cache:       cache,
			Events:      events,
			Import:      cfg.ImportEnabled,
		})
	}
}
