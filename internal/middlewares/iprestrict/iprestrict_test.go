package iprestrict

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchIP(t *testing.T) {
	tests := []struct {
		ip      string
		pattern string
		want    bool
	}{
		{"192.168.1.5", "192.168.1.5", true},
		{"192.168.1.5", "192.168.1.6", false},
		{"192.168.1.5", "192.168.1.0/24", true},
		{"10.0.0.1", "192.168.1.0/24", false},
		{"192.168.1.99", "192.168.1.*", true},
		{"192.168.2.99", "192.168.1.*", false},
		{"10.1.2.3", "10.*", true},
		{"192.168.1.5", "not-an-ip/24", false},
		{"192.168.1.5", "300.300.300.300/24", false},
		{"::1", "192.168.1.0/24", false},
		{"192.168.1.5", "2001:db8::/32", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchIP(tt.ip, tt.pattern), "ip=%s pattern=%s", tt.ip, tt.pattern)
	}
}

func TestAllowedEmptyListAllowsEverything(t *testing.T) {
	assert.True(t, Allowed("203.0.113.9", nil))
	assert.True(t, Allowed("203.0.113.9", []string{}))
}

func TestAllowedFirstMatchWins(t *testing.T) {
	patterns := []string{"10.0.0.0/8", "192.168.1.*"}
	assert.True(t, Allowed("10.20.30.40", patterns))
	assert.True(t, Allowed("192.168.1.7", patterns))
	assert.False(t, Allowed("172.16.0.1", patterns))
}

type staticProvider struct {
	patterns []string
}

func (p staticProvider) AllowedIPs(ctx context.Context) []string {
	return p.patterns
}

func TestMiddlewareBlocksUnlistedIP(t *testing.T) {
	app := fiber.New()
	app.Use(New(Config{Provider: staticProvider{patterns: []string{"10.0.0.0/8"}}}))
	app.Get("/", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestMiddlewareSkip(t *testing.T) {
	app := fiber.New()
	app.Use(New(Config{Provider: staticProvider{patterns: []string{"10.0.0.0/8"}}, Skip: true}))
	app.Get("/", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMiddlewareEmptyListFailsOpen(t *testing.T) {
	app := fiber.New()
	app.Use(New(Config{Provider: staticProvider{}}))
	app.Get("/", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
