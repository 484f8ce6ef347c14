package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reviewpulse/reviewpulse-backend/internal/config"
	"github.com/reviewpulse/reviewpulse-backend/internal/services"
	"github.com/reviewpulse/reviewpulse-backend/internal/store"
)

// Handler owns the HTTP surface. Dependencies are injected at construction
// so endpoint tests can swap in fakes.
type Handler struct {
	store  store.ReviewStore
	engine *services.Engine
	cfg    *config.Config
	logger *zap.Logger
}

func New(reviews store.ReviewStore, engine *services.Engine, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		store:  reviews,
		engine: engine,
		cfg:    cfg,
		logger: logger,
	}
}

func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "AI Feedback System API",
		"version": "1.0.0",
	})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
	})
}
