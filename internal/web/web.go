// Package web holds the embedded dashboard templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const PartialPath = "/partials/dashboard"

// Static returns the asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("web: static assets missing: %v", err))
	}
	return sub
}

// LoginForm is what the login page echoes back after a rejected attempt.
type LoginForm struct {
	MemberID string
	Error    string
}

type page struct {
	AssetPrefix string
	PartialURL  string
	RefreshMs   int64
	MemberID    string
	Login       LoginForm
	View        service.View
}

// Renderer executes the dashboard templates.
type Renderer struct {
	tmpl        *template.Template
	assetPrefix string
	refresh     time.Duration
}

// NewRenderer parses the embedded templates. assetPrefix is where the static
// handler is mounted minus the trailing "assets/"; refresh is how often the
// browser reloads the dashboard body.
func NewRenderer(assetPrefix string, refresh time.Duration) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Renderer{
		tmpl:        tmpl,
		assetPrefix: assetPrefix,
		refresh:     refresh,
	}, nil
}

func (r *Renderer) Login(w io.Writer, form LoginForm) error {
	return r.tmpl.ExecuteTemplate(w, "login", r.page("", form, service.View{}))
}

func (r *Renderer) Dashboard(w io.Writer, memberID string, v service.View) error {
	return r.tmpl.ExecuteTemplate(w, "dashboard", r.page(memberID, LoginForm{}, v))
}

// DashboardBody renders only the part of the dashboard that auto-refreshes.
func (r *Renderer) DashboardBody(w io.Writer, v service.View) error {
	return r.tmpl.ExecuteTemplate(w, "dashboard-body", r.page("", LoginForm{}, v))
}

func (r *Renderer) page(memberID string, form LoginForm, v service.View) page {
	return page{
		AssetPrefix: r.assetPrefix,
		PartialURL:  PartialPath,
		RefreshMs:   r.refresh.Milliseconds(),
		MemberID:    memberID,
		Login:       form,
		View:        v,
	}
}
