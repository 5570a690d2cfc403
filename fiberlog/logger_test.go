package fiberlog

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestApp(buf *bytes.Buffer, tags ...string) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	app := fiber.New()
	app.Use(New(Config{Logger: logger, Tags: tags, SkipPaths: []string{"/ws"}}))
	app.Post("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success"})
	})
	app.Get("/bad", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusBadRequest)
	})
	app.Get("/ws", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestNew(t *testing.T) {
	t.Run("logs request fields", func(t *testing.T) {
		buf := new(bytes.Buffer)
		app := newTestApp(buf, TagMethod, TagPath, TagStatus, TagBody, TagResBody, RequestID)
		req := httptest.NewRequest(fiber.MethodPost, "/ok", strings.NewReader(`{"a":1}`))
		req.Header.Set(fiber.HeaderXRequestID, "req-1")
		_, err := app.Test(req)
		require.NoError(t, err)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "POST", entry[TagMethod])
		require.Equal(t, "/ok", entry[TagPath])
		require.EqualValues(t, 200, entry[TagStatus])
		require.Equal(t, `{"a":1}`, entry[TagBody])
		require.Equal(t, `{"status":"success"}`, entry[TagResBody])
		require.Equal(t, "req-1", entry[RequestID])
		require.Equal(t, "info", entry["level"])
	})
	t.Run("client errors are warnings", func(t *testing.T) {
		buf := new(bytes.Buffer)
		app := newTestApp(buf, TagStatus)
		_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/bad", nil))
		require.NoError(t, err)
		require.Contains(t, buf.String(), `"level":"warning"`)
	})
	t.Run("skipped path", func(t *testing.T) {
		buf := new(bytes.Buffer)
		app := newTestApp(buf, TagStatus)
		_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ws", nil))
		require.NoError(t, err)
		require.Empty(t, buf.String())
	})
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate([]byte("abc")))
	long := truncate(bytes.Repeat([]byte("x"), maxBodyLog+10))
	require.Len(t, long, maxBodyLog+3)
}
