package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/audit"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/session"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/web"
)

const cookieName = "test_session"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticSource struct {
	events []domain.Event
}

func (s staticSource) FetchEvents(context.Context) ([]domain.Event, error) {
	return s.events, nil
}

// recordingAudit keeps every event it is given.
type recordingAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAudit) Log(_ context.Context, e audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingAudit) Events() []audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Event(nil), r.events...)
}

func (r *recordingAudit) Types() []audit.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]audit.EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.EventType
	}
	return types
}

type harness struct {
	t       *testing.T
	app     *fiber.App
	manager *session.Manager
	audit   *recordingAudit
	cookie  *http.Cookie
}

func dist(m float64) *float64 { return &m }

func todayEvents() []domain.Event {
	ts := time.Now().UnixMilli()
	return []domain.Event{
		{TimestampMs: ts, Floor: "3F", Person: "김철수 (ABC-1234567)", AnchorID: "AX1", Distance: dist(1.2), Level: "warning"},
		{TimestampMs: ts, Floor: "3F", Person: "Guest", AnchorID: "AX2", Distance: dist(0.5), Level: "safe"},
	}
}

func newHarness(t *testing.T, events []domain.Event) *harness {
	t.Helper()

	manager := session.NewManager(staticSource{events: events}, session.Config{PollInterval: time.Hour, Location: time.UTC}, testLogger())
	t.Cleanup(manager.Stop)

	renderer, err := web.NewRenderer("/", time.Second)
	require.NoError(t, err)

	rec := &recordingAudit{}
	pages := NewDashboardHandler(manager, renderer, rec, time.UTC, testLogger())
	api := NewAPIHandler(manager, rec, time.UTC, testLogger())

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(testLogger())})
	app.Use(middleware.Session(middleware.SessionDependencies{
		Store:   fibersession.New(fibersession.Config{KeyLookup: "cookie:" + cookieName}),
		Manager: manager,
		Logger:  testLogger(),
	}))
	app.Get("/", pages.Index)
	app.Post("/login", pages.Login)
	app.Post("/logout", pages.Logout)
	app.Post("/selection", pages.Selection)
	app.Get("/partial", pages.Partial)
	app.Post("/api/session", api.CreateSession)
	app.Delete("/api/session", api.DeleteSession)
	app.Get("/api/view", api.View)
	app.Get("/api/events", api.Events)
	app.Post("/api/selection", api.UpdateSelection)

	return &harness{t: t, app: app, manager: manager, audit: rec}
}

func (h *harness) do(method, path, contentType, body string) *http.Response {
	h.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)

	if h.cookie == nil {
		for _, c := range resp.Cookies() {
			if c.Name == cookieName {
				h.cookie = c
			}
		}
	}
	return resp
}

func (h *harness) form(path, body string) *http.Response {
	return h.do("POST", path, "application/x-www-form-urlencoded", body)
}

func (h *harness) json(method, path, body string) *http.Response {
	return h.do(method, path, "application/json", body)
}

// login authenticates through the form and waits for the first batch.
func (h *harness) login(wantEvents int) {
	h.t.Helper()

	resp := h.form("/login", "member_id=ABC-1001")
	require.Equal(h.t, http.StatusSeeOther, resp.StatusCode)

	require.Eventually(h.t, func() bool {
		resp := h.do("GET", "/api/events", "", "")
		body := readAll(h.t, resp)
		return resp.StatusCode == 200 && strings.Contains(body, `"count":`+strconv.Itoa(wantEvents))
	}, time.Second, 10*time.Millisecond)
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
