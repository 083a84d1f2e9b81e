package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name       string
		handler    fiber.Handler
		wantStatus float64
		wantLevel  string
	}{
		{
			name:       "success logs info",
			handler:    func(c *fiber.Ctx) error { return c.SendString("ok") },
			wantStatus: 200,
			wantLevel:  "INFO",
		},
		{
			name:       "client error logs warn",
			handler:    func(c *fiber.Ctx) error { return domain.ErrUnauthorized },
			wantStatus: 401,
			wantLevel:  "WARN",
		},
		{
			name:       "server error logs error",
			handler:    func(c *fiber.Ctx) error { return domain.ErrInternal },
			wantStatus: 500,
			wantLevel:  "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(discardLogger())})
			app.Use(requestid.New())
			app.Use(Logger(logger))
			app.Get("/x", tt.handler)

			_, err := app.Test(httptest.NewRequest("GET", "/x", nil))
			require.NoError(t, err)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "http request", entry["msg"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantStatus, entry["status"])
			assert.Equal(t, "/x", entry["path"])
			assert.NotEmpty(t, entry["request_id"])
		})
	}
}
