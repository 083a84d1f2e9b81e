package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/audit"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/session"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/web"
)

const (
	AppName           = "UWB Dashboard"
	Version           = "0.1.0"
	SessionCookieName = "uwb_session"
)

type Dependencies struct {
	Manager  *session.Manager
	Renderer *web.Renderer
	Audit    audit.Logger
	Location *time.Location

	// AssetPrefix is the deployment base path; static files live under
	// AssetPrefix + "assets/".
	AssetPrefix    string
	SessionTTL     time.Duration
	LoginRateLimit int
	SecureCookies  bool
}

type Router struct {
	app          *fiber.App
	logger       *slog.Logger
	deps         *Dependencies
	loginLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      AppName,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	var counter handler.SessionCounter
	if r.deps != nil {
		counter = r.deps.Manager
	}
	healthHandler := handler.NewHealthHandler(Version, counter)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	// Embedded stylesheet and script
	r.app.Use(r.deps.AssetPrefix+"assets", filesystem.New(filesystem.Config{
		Root:   http.FS(web.Static()),
		MaxAge: 3600,
	}))

	store := fibersession.New(fibersession.Config{
		Expiration:     r.deps.SessionTTL,
		KeyLookup:      "cookie:" + SessionCookieName,
		CookieHTTPOnly: true,
		CookieSecure:   r.deps.SecureCookies,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})
	withSession := middleware.Session(middleware.SessionDependencies{
		Store:   store,
		Manager: r.deps.Manager,
		Logger:  r.logger,
	})

	r.loginLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Max:    r.deps.LoginRateLimit,
		Window: time.Minute,
	})
	limitLogin := r.loginLimiter.Handler()

	// HTML pages
	pages := handler.NewDashboardHandler(r.deps.Manager, r.deps.Renderer, r.deps.Audit, r.deps.Location, r.logger)
	r.app.Get("/", withSession, pages.Index)
	r.app.Post("/login", withSession, limitLogin, pages.Login)
	r.app.Post("/logout", withSession, pages.Logout)
	r.app.Post("/selection", withSession, middleware.RequireLogin(true), pages.Selection)
	r.app.Get(web.PartialPath, withSession, middleware.RequireLogin(false), pages.Partial)

	// JSON API
	apiHandler := handler.NewAPIHandler(r.deps.Manager, r.deps.Audit, r.deps.Location, r.logger)
	api := r.app.Group("/api", withSession)
	api.Post("/session", limitLogin, apiHandler.CreateSession)

	authed := middleware.RequireLogin(false)
	api.Delete("/session", authed, apiHandler.DeleteSession)
	api.Get("/view", authed, apiHandler.View)
	api.Get("/events", authed, apiHandler.Events)
	api.Post("/selection", authed, apiHandler.UpdateSelection)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

// Shutdown stops accepting requests and then stops every session poller.
func (r *Router) Shutdown() error {
	err := r.app.Shutdown()

	if r.loginLimiter != nil {
		r.loginLimiter.Stop()
	}
	if r.deps != nil && r.deps.Manager != nil {
		r.deps.Manager.Stop()
	}

	return err
}
