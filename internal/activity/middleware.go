package activity

import (
	"log/slog"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/sessions"
	"github.com/gofiber/fiber/v2"
)

// Middleware records one audit row per loggable authenticated request. The
// handler runs first; its error is propagated after recording, so failed
// mutations still leave a row. A failed write is logged and never fails the
// response.
func Middleware(service *Service) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()

		sess, ok := sessions.Peek(ctx)
		if !ok || !sess.IsAuthenticated() {
			return err
		}
		if ShouldSkip(ctx.Path(), ctx.Method(), ctx.XHR()) {
			return err
		}

		entry := Entry{
			UserID:     sess.UserID,
			Action:     DetermineAction(ctx.Path(), ctx.Method()),
			TargetType: DetermineTargetType(ctx.Path()),
			TargetID:   ExtractTargetID(ctx),
			IP:         ctx.IP(),
			UserAgent:  ctx.Get(fiber.HeaderUserAgent),
			Method:     ctx.Method(),
			URL:        ctx.OriginalURL(),
		}
		if logErr := service.Log(ctx.Context(), entry); logErr != nil {
			slog.Error("Could not record activity", "error", logErr, "path", ctx.Path())
		}
		return err
	}
}
