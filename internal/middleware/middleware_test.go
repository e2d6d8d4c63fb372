package middleware

import (
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"UIAnnotator/pkg/log"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

func newTestApp(rps float64, burst int) *fiber.App {
	mw := New(log.NewLogger(), rps, burst)

	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	app.Use(mw.NewLoggingMiddleware())
	app.Post("/predict", mw.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"request_id": mw.GetRequestID(c)})
	})
	return app
}

func TestRequestIDIsGeneratedAndEchoed(t *testing.T) {
	app := newTestApp(100, 100)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/predict", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, resp.Header.Get(RequestIDKey), 26)

	req := httptest.NewRequest(fiber.MethodPost, "/predict", nil)
	req.Header.Set(RequestIDKey, "caller-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "caller-id", resp.Header.Get(RequestIDKey))
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	app := newTestApp(0.001, 2)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/predict", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/predict", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestSummarizeBody(t *testing.T) {
	require.Equal(t, `{"tag":"button"}`, summarizeBody(fiber.MIMEApplicationJSON, []byte(`{ "tag": "button" }`)))
	require.Equal(t, "[multipart/form-data; boundary=x body]", summarizeBody("multipart/form-data; boundary=x", []byte("--x")))
	require.Equal(t, "[non-JSON body]", summarizeBody(fiber.MIMEApplicationJSON, []byte("{")))
}

func TestRateLimiterPrunesIdleClients(t *testing.T) {
	limiter := newRateLimiter(1, 1)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	idle := limiter.GetLimiterFrom("10.0.0.1")
	require.True(t, idle.Allow())

	now = now.Add(time.Hour)
	limiter.GetLimiterFrom("10.0.0.2")
	require.Equal(t, 2, limiter.Len())

	require.Equal(t, 1, limiter.Prune(now.Add(-30*time.Minute)))
	require.Equal(t, 1, limiter.Len())

	require.NotSame(t, idle, limiter.GetLimiterFrom("10.0.0.1"))
}

func TestPruneRateLimiters(t *testing.T) {
	mw := New(log.NewLogger(), 1, 1).(*middleware)
	start := time.Now()
	mw.rateLimitter.now = func() time.Time { return start }
	mw.rateLimitter.GetLimiterFrom("10.0.0.1")

	mw.rateLimitter.now = func() time.Time { return start.Add(3 * time.Hour) }
	require.Equal(t, 1, mw.PruneRateLimiters(2*time.Hour))
	require.Equal(t, 0, mw.rateLimitter.Len())
}
