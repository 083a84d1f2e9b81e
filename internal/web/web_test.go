package web

import (
	"bytes"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/service"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("/uwb-dashboard/", 2*time.Second)
	require.NoError(t, err)
	return r
}

func sampleView(t *testing.T) service.View {
	t.Helper()
	d := 1.2
	batch := []domain.Event{{
		TimestampMs: time.Date(2024, 5, 1, 14, 5, 9, 0, time.UTC).UnixMilli(),
		Floor:       "3F",
		Person:      "김철수 (ABC-1234567)",
		AnchorID:    "AX1",
		Distance:    &d,
		Level:       "Danger",
	}}
	sel := domain.Selection{Floor: domain.MatchAll, Person: domain.MatchAll, Date: "2024-05-01", Level: domain.MatchAll}
	v, err := service.BuildView(batch, sel, time.UTC)
	require.NoError(t, err)
	return v
}

func TestRenderer_Login(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Login(&buf, LoginForm{MemberID: "<b>x</b>", Error: "회원번호를 입력해 주세요."}))

	out := buf.String()
	assert.Contains(t, out, "로그인 하기")
	assert.Contains(t, out, "회원번호(시리얼)")
	assert.Contains(t, out, "비밀번호")
	assert.Contains(t, out, `action="/login"`)
	assert.Contains(t, out, "/uwb-dashboard/assets/app.css")
	assert.Contains(t, out, "회원번호를 입력해 주세요.")
	assert.Contains(t, out, "&lt;b&gt;x&lt;/b&gt;")
	assert.NotContains(t, out, "<b>x</b>")
}

func TestRenderer_Dashboard(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Dashboard(&buf, "ABC-1001", sampleView(t)))

	out := buf.String()
	assert.Contains(t, out, "UWB 센서 관제 시스템")
	assert.Contains(t, out, "로그아웃")
	assert.Contains(t, out, "ABC-1001")
	assert.Contains(t, out, `data-refresh-ms="2000"`)
	assert.Contains(t, out, `data-partial-url="/partials/dashboard"`)
	assert.Contains(t, out, "/uwb-dashboard/assets/app.js")

	assert.Contains(t, out, `<option value="3F">3 Floor</option>`)
	assert.Contains(t, out, `<span class="person-name">김철수</span>`)
	assert.Contains(t, out, "ABC-1234567")
	assert.Contains(t, out, `<tr class="row-safe">`)
	assert.Contains(t, out, `status-badge status-danger`)
	assert.Contains(t, out, "위험")
	assert.Contains(t, out, "14:05:09")
	assert.Contains(t, out, "1.20m")
	assert.NotContains(t, out, service.NoRowsMessage)
}

func TestRenderer_DashboardBodyEmpty(t *testing.T) {
	r := newTestRenderer(t)

	v, err := service.BuildView(nil, domain.Selection{Floor: domain.MatchAll, Person: domain.MatchAll, Date: "2024-05-01", Level: domain.MatchAll}, time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.DashboardBody(&buf, v))

	out := buf.String()
	assert.Contains(t, out, service.NoPersonsMessage)
	assert.Contains(t, out, service.NoRowsMessage)
	assert.Contains(t, out, `<option value="ALL" selected>전체</option>`)
	assert.NotContains(t, out, "<html")
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"app.css", "app.js"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}
