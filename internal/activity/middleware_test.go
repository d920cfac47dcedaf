package activity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/sessions"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiddlewareApp(t *testing.T, service *Service, handler fiber.Handler) (*fiber.App, *http.Cookie) {
	app := fiber.New()
	app.Use(sessions.New(sessions.Config{
		SessionMaxAge: time.Hour,
		CookieName:    "sid",
	}))
	app.Post("/test-login", func(ctx *fiber.Ctx) error {
		sessions.Get(ctx).Save(sessions.SessionData{
			IP:        ctx.IP(),
			UserID:    10,
			Role:      "editor",
			LoginTime: time.Now(),
		})
		return ctx.SendStatus(fiber.StatusOK)
	})
	app.Use(Middleware(service))
	app.Post("/facilities/:facility/contracts", handler)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/test-login", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "sid" {
			return app, cookie
		}
	}
	t.Fatal("no session cookie issued")
	return nil, nil
}

func TestMiddlewareRecordsRequest(t *testing.T) {
	service := NewService(NewRepository(setupTestDB(t)))
	app, cookie := newMiddlewareApp(t, service, func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusCreated)
	})

	req := newRequest(fiber.MethodPost, "/facilities/5/contracts")
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	entries, err := service.List(context.Background(), Filter{UserID: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionCreate, entries[0].Action)
	assert.Equal(t, uint(5), entries[0].TargetID)
}

func TestMiddlewareRecordsFailedRequests(t *testing.T) {
	service := NewService(NewRepository(setupTestDB(t)))
	app, cookie := newMiddlewareApp(t, service, func(ctx *fiber.Ctx) error {
		return fiber.ErrInternalServerError
	})

	req := newRequest(fiber.MethodPost, "/facilities/5/contracts")
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode, "handler error still reaches the client")

	// an errored mutation leaves a row too
	entries, err := service.List(context.Background(), Filter{UserID: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fiber.MethodPost, entries[0].Method)
	assert.Equal(t, "/facilities/5/contracts", entries[0].URL)
}
