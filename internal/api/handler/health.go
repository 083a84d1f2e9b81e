package handler

import (
	"github.com/gofiber/fiber/v2"
)

// SessionCounter reports how many operators are logged in.
type SessionCounter interface {
	ActiveCount() int
}

type HealthHandler struct {
	version  string
	sessions SessionCounter
}

func NewHealthHandler(version string, sessions SessionCounter) *HealthHandler {
	return &HealthHandler{
		version:  version,
		sessions: sessions,
	}
}

type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version,omitempty"`
	ActiveSessions *int   `json:"active_sessions,omitempty"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	active := 0
	if h.sessions != nil {
		active = h.sessions.ActiveCount()
	}
	return c.JSON(HealthResponse{
		Status:         "ready",
		ActiveSessions: &active,
	})
}
