package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/audit"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/session"
)

// sessionAuth runs the login and logout transitions shared by the HTML and
// JSON surfaces and records them in the audit trail.
type sessionAuth struct {
	manager *session.Manager
	audit   audit.Logger
	logger  *slog.Logger
}

func (a *sessionAuth) login(c *fiber.Ctx, s *session.Session, creds session.Credentials) error {
	_, err := a.manager.Login(s.ID(), creds)

	event := a.event(c, audit.EventLogin, s.ID(), strings.TrimSpace(creds.MemberID))
	if err != nil {
		event.EventType = audit.EventLoginRejected
		event.Error = err.Error()
	}
	event.Success = err == nil
	a.record(c.UserContext(), event)

	return err
}

func (a *sessionAuth) logout(c *fiber.Ctx, s *session.Session) {
	memberID := s.Snapshot().MemberID
	if !a.manager.Logout(s.ID()) {
		return
	}
	event := a.event(c, audit.EventLogout, s.ID(), memberID)
	event.Success = true
	a.record(c.UserContext(), event)
}

func (a *sessionAuth) event(c *fiber.Ctx, typ audit.EventType, sessionID, memberID string) audit.Event {
	return audit.Event{
		EventType: typ,
		SessionID: sessionID,
		MemberID:  memberID,
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}

func (a *sessionAuth) record(ctx context.Context, event audit.Event) {
	if err := a.audit.Log(ctx, event); err != nil {
		a.logger.Warn("failed to record audit event", "error", err, "event_type", event.EventType)
	}
}

func isEmptyLogin(err error) bool {
	return errors.Is(err, domain.ErrEmptyLogin)
}
