package handler

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/audit"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/service"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/session"
)

// APIHandler exposes the dashboard state as JSON.
type APIHandler struct {
	auth     sessionAuth
	location *time.Location
}

func NewAPIHandler(manager *session.Manager, auditLogger audit.Logger, location *time.Location, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		auth:     sessionAuth{manager: manager, audit: auditLogger, logger: logger},
		location: location,
	}
}

type LoginRequest struct {
	MemberID string `json:"member_id"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	MemberID      string           `json:"member_id,omitempty"`
	Selection     domain.Selection `json:"selection"`
}

type EventsResponse struct {
	Events    []domain.Event `json:"events"`
	Count     int            `json:"count"`
	FetchedAt *time.Time     `json:"fetched_at,omitempty"`
}

// CreateSession handles POST /api/session
func (h *APIHandler) CreateSession(c *fiber.Ctx) error {
	s, err := middleware.GetSession(c)
	if err != nil {
		return err
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	creds := session.Credentials{MemberID: req.MemberID, Password: req.Password}
	if err := h.auth.login(c, s, creds); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(sessionResponse(s.Snapshot()))
}

// DeleteSession handles DELETE /api/session
func (h *APIHandler) DeleteSession(c *fiber.Ctx) error {
	s, err := middleware.GetSession(c)
	if err != nil {
		return err
	}

	h.auth.logout(c, s)
	return c.JSON(sessionResponse(s.Snapshot()))
}

// View handles GET /api/view
func (h *APIHandler) View(c *fiber.Ctx) error {
	s, err := middleware.GetSession(c)
	if err != nil {
		return err
	}

	snap := s.Snapshot()
	v, err := service.BuildView(snap.Batch, snap.Selection, h.location)
	if err != nil {
		return err
	}
	return c.JSON(v)
}

// Events handles GET /api/events
func (h *APIHandler) Events(c *fiber.Ctx) error {
	s, err := middleware.GetSession(c)
	if err != nil {
		return err
	}

	snap := s.Snapshot()
	resp := EventsResponse{
		Events: snap.Batch,
		Count:  len(snap.Batch),
	}
	if !snap.LastFetch.IsZero() {
		resp.FetchedAt = &snap.LastFetch
	}
	return c.JSON(resp)
}

// UpdateSelection handles POST /api/selection
func (h *APIHandler) UpdateSelection(c *fiber.Ctx) error {
	s, err := middleware.GetSession(c)
	if err != nil {
		return err
	}

	var update domain.SelectionUpdate
	if err := c.BodyParser(&update); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if update.IsEmpty() {
		return domain.ErrBadRequest.WithMessage("at least one of floor, person, date, level is required")
	}

	if _, err := s.ApplySelection(update); err != nil {
		return err
	}

	snap := s.Snapshot()
	v, err := service.BuildView(snap.Batch, snap.Selection, h.location)
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func sessionResponse(snap session.Snapshot) SessionResponse {
	return SessionResponse{
		Authenticated: snap.Authenticated,
		MemberID:      snap.MemberID,
		Selection:     snap.Selection,
	}
}
