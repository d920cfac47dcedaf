package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
)

func respondData(ctx *fiber.Ctx, data interface{}) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func respondError(ctx *fiber.Ctx, code int, message string) error {
	return ctx.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func respondForbidden(ctx *fiber.Ctx) error {
	return respondError(ctx, fiber.StatusForbidden, "この操作を行う権限がありません。")
}

func respondNotFound(ctx *fiber.Ctx) error {
	return respondError(ctx, fiber.StatusNotFound, "データが見つかりません。")
}

// facilityParam reads the facility id from the route. Zero means malformed.
func facilityParam(ctx *fiber.Ctx) uint {
	return cast.ToUint(ctx.Params("facility"))
}

func idParam(ctx *fiber.Ctx) uint {
	return cast.ToUint(ctx.Params("id"))
}
