package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/session"
)

const (
	// LocalSession is the key to retrieve the *session.Session from context
	LocalSession = "dashboard_session"

	sessionIDKey = "sid"
)

type SessionDependencies struct {
	Store   *fibersession.Store
	Manager *session.Manager
	Logger  *slog.Logger
}

// Session resolves the browser's session cookie, issuing a fresh id when there
// is none, and attaches the dashboard state for that id.
func Session(deps SessionDependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := deps.Store.Get(c)
		if err != nil {
			return domain.ErrInternal.WithError(err)
		}

		id, ok := sess.Get(sessionIDKey).(string)
		if !ok || id == "" {
			id = uuid.NewString()
			sess.Set(sessionIDKey, id)
		}

		// Saving on every request slides the cookie expiry.
		if err := sess.Save(); err != nil {
			deps.Logger.Error("failed to save session cookie", "error", err)
			return domain.ErrInternal.WithError(err)
		}

		c.Locals(LocalSession, deps.Manager.GetOrCreate(id))
		return c.Next()
	}
}

// RequireLogin rejects requests whose session is not authenticated. Pages are
// redirected to the login screen; everything else gets 401.
func RequireLogin(redirect bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := GetSession(c)
		if err != nil {
			return err
		}
		if s.Authenticated() {
			return c.Next()
		}
		if redirect {
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		return domain.ErrUnauthorized
	}
}

// GetSession retrieves the dashboard session from Fiber context
func GetSession(c *fiber.Ctx) (*session.Session, error) {
	s, ok := c.Locals(LocalSession).(*session.Session)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s, nil
}
