package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "app error",
			err:        domain.ErrUnauthorized,
			wantStatus: 401,
			wantCode:   "UNAUTHORIZED",
			wantMsg:    "Login required",
		},
		{
			name:       "app error with custom message",
			err:        domain.ErrInvalidSelection.WithMessage("bad level"),
			wantStatus: 422,
			wantCode:   "INVALID_SELECTION",
			wantMsg:    "bad level",
		},
		{
			name:       "wrapped app error hides cause",
			err:        domain.ErrMalformedEvent.WithError(errors.New("no distance")),
			wantStatus: 500,
			wantCode:   "MALFORMED_EVENT",
			wantMsg:    domain.ErrMalformedEvent.Message,
		},
		{
			name:       "fiber error",
			err:        fiber.ErrMethodNotAllowed,
			wantStatus: 405,
			wantCode:   "HTTP_ERROR",
			wantMsg:    "Method Not Allowed",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: 500,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(discardLogger())})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body errorEnvelope
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantMsg, body.Error.Message)
			assert.NotContains(t, body.Error.Message, "no distance")
		})
	}
}

func TestRecover(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(discardLogger())})
	app.Use(Recover(discardLogger()))
	app.Get("/panic", func(c *fiber.Ctx) error { panic("kaboom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var body errorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, 404, statusOf(fiber.ErrNotFound))
	assert.Equal(t, 429, statusOf(domain.ErrRateLimitExceeded))
	assert.Equal(t, 500, statusOf(errors.New("x")))
}
