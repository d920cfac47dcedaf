package middlewares

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func wantsJSON(ctx *fiber.Ctx) bool {
	return strings.Contains(ctx.Get(fiber.HeaderAccept), "application/json") || ctx.XHR()
}

// ErrorHandler maps errors to JSON bodies for API callers and rendered pages
// for browsers. Unknown errors are logged and masked as 500.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "サーバーエラーが発生しました。"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		if e.Message != "" {
			message = e.Message
		}
	}

	if code == fiber.StatusInternalServerError {
		slog.Error("unhandled error", "path", ctx.Path(), "code", code, "error", err)
	}

	if wantsJSON(ctx) {
		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}

	switch code {
	case fiber.StatusBadRequest:
		return ctx.Status(code).Render("errors/bad-request", fiber.Map{"message": message})
	case fiber.StatusForbidden:
		return ctx.Status(code).Render("errors/forbidden", fiber.Map{"message": message})
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return ctx.Status(fiber.StatusNotFound).Render("errors/not-found", nil)
	default:
		return ctx.Status(code).Render("errors/internal", nil)
	}
}
