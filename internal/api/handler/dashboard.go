package handler

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/audit"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/service"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/session"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/web"
)

// EmptyLoginMessage is shown on the login page after a blank submit.
const EmptyLoginMessage = "회원번호(시리얼) 또는 비밀번호를 입력해 주세요."

// DashboardHandler serves the server-rendered pages.
type DashboardHandler struct {
	auth     sessionAuth
	renderer *web.Renderer
	location *time.Location
}

func NewDashboardHandler(
	manager *session.Manager,
	renderer *web.Renderer,
	auditLogger audit.Logger,
	location *time.Location,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		auth:     sessionAuth{manager: manager, audit: auditLogger, logger: logger},
		renderer: renderer,
		location: location,
	}
}

// Index renders the login page or the dashboard depending on session state.
func (h *DashboardHandler) Index(c *fiber.Ctx) error {
	s, err := middleware.GetSession(c)
	if err != nil {
		return err
	}

	snap := s.Snapshot()
	c.Type("html", "utf-8")
	if !snap.Authenticated {
		return h.renderer.Login(c, web.LoginForm{})
	}

	v, err := service.BuildView(snap.Batch, snap.Selection, h.location)
	if err != nil {
		return err
	}
	return h.renderer.Dashboard(c, snap.MemberID, v)
}

// Login authenticates any submission with a non-blank member id or password.
// Neither value is checked.
func (h *DashboardHandler) Login(c *fiber.Ctx) error {
	s, err := middleware.GetSession(c)
	if err != nil {
		return err
	}

	creds := session.Credentials{
		MemberID: utils.CopyString(c.FormValue("member_id")),
		Password: c.FormValue("password"),
	}
	if err := h.auth.login(c, s, creds); err != nil {
		if !isEmptyLogin(err) {
			return err
		}
		c.Status(fiber.StatusBadRequest).Type("html", "utf-8")
		return h.renderer.Login(c, web.LoginForm{MemberID: creds.MemberID, Error: EmptyLoginMessage})
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *DashboardHandler) Logout(c *fiber.Ctx) error {
	s, err := middleware.GetSession(c)
	if err != nil {
		return err
	}

	h.auth.logout(c, s)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Selection applies the posted filter fields. Fields absent from the form keep
// their current value.
func (h *DashboardHandler) Selection(c *fiber.Ctx) error {
	s, err := middleware.GetSession(c)
	if err != nil {
		return err
	}

	update := domain.SelectionUpdate{
		Floor:  formField(c, "floor"),
		Person: formField(c, "person"),
		Date:   formField(c, "date"),
		Level:  formField(c, "level"),
	}
	if _, err := s.ApplySelection(update); err != nil {
		return err
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// Partial renders the auto-refreshing part of the dashboard.
func (h *DashboardHandler) Partial(c *fiber.Ctx) error {
	s, err := middleware.GetSession(c)
	if err != nil {
		return err
	}

	snap := s.Snapshot()
	v, err := service.BuildView(snap.Batch, snap.Selection, h.location)
	if err != nil {
		return err
	}

	c.Type("html", "utf-8")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return h.renderer.DashboardBody(c, v)
}

func formField(c *fiber.Ctx, key string) *string {
	args := c.Request().PostArgs()
	if !args.Has(key) {
		return nil
	}
	v := string(args.Peek(key))
	return &v
}
