package auth

import (
	"strings"
	"time"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/sessions"
	"github.com/gofiber/fiber/v2"
)

// TokenAuth promotes a valid bearer token into the request session state so
// everything downstream sees one authenticated principal regardless of how it
// authenticated. Runs after the sessions middleware; browser sessions win.
func TokenAuth(issuer *TokenIssuer) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sess := sessions.Get(ctx)
		if sess.IsAuthenticated() {
			return ctx.Next()
		}

		header := ctx.Get(fiber.HeaderAuthorization)
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			claims, err := issuer.Verify(token)
			if err != nil {
				return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"success": false,
					"message": "トークンが無効です。",
				})
			}
			sess.SessionData = sessions.SessionData{
				IP:        ctx.IP(),
				UserID:    claims.UserID,
				Role:      claims.Role,
				LoginTime: time.Now(),
			}
		}
		return ctx.Next()
	}
}
