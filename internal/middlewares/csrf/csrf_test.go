package csrf

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/sessions"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(sessions.New(sessions.Config{
		SessionMaxAge: time.Hour,
		CookieName:    "sid",
	}))
	app.Use(New(Config{}))
	app.Get("/form", func(ctx *fiber.Ctx) error {
		return ctx.SendString(Get(sessions.Get(ctx)).Token)
	})
	app.Post("/submit", func(ctx *fiber.Ctx) error {
		if !Verify(ctx) {
			return fiber.ErrForbidden
		}
		return ctx.SendString("ok")
	})
	return app
}

func fetchToken(t *testing.T, app *fiber.App) (string, *http.Cookie) {
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/form", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	token := string(body)
	require.NotEmpty(t, token)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "sid" {
			return token, cookie
		}
	}
	t.Fatal("no session cookie issued")
	return "", nil
}

func TestVerifyAcceptsSessionToken(t *testing.T) {
	app := newTestApp()
	token, cookie := fetchToken(t, app)

	form := url.Values{FormFieldName: {token}}
	req := httptest.NewRequest(fiber.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestVerifyAcceptsHeaderToken(t *testing.T) {
	app := newTestApp()
	token, cookie := fetchToken(t, app)

	req := httptest.NewRequest(fiber.MethodPost, "/submit", nil)
	req.Header.Set(HeaderName, token)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestVerifyRejectsWrongToken(t *testing.T) {
	app := newTestApp()
	_, cookie := fetchToken(t, app)

	req := httptest.NewRequest(fiber.MethodPost, "/submit", nil)
	req.Header.Set(HeaderName, "forged")
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestVerifyRejectsMissingToken(t *testing.T) {
	app := newTestApp()
	_, cookie := fetchToken(t, app)

	req := httptest.NewRequest(fiber.MethodPost, "/submit", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestTokenStableWithinSession(t *testing.T) {
	app := newTestApp()
	token, cookie := fetchToken(t, app)

	req := httptest.NewRequest(fiber.MethodGet, "/form", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, token, string(body))
}
