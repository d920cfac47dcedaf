package api

import (
	"fmt"
	"time"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/access"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/export"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares"
	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	service *export.Service
	policy  access.Policy
}

func NewExportHandler(service *export.Service, policy access.Policy) *ExportHandler {
	return &ExportHandler{
		service: service,
		policy:  policy,
	}
}

func (h *ExportHandler) Register(router fiber.Router) {
	router.Get("/csv", h.ExportCSV)
}

// ExportCSV is role-gated only; the view policy scopes which facility rows
// the caller can reach in the first place.
func (h *ExportHandler) ExportCSV(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	facilityID := facilityParam(ctx)

	allowed, err := h.policy.Export(ctx.Context(), user)
	if err != nil {
		return err
	}
	if !allowed {
		return respondForbidden(ctx)
	}
	viewable, err := h.policy.View(ctx.Context(), user, facilityID)
	if err != nil {
		return err
	}
	if !viewable {
		return respondForbidden(ctx)
	}

	filename := fmt.Sprintf("maintenance_%d_%s.csv", facilityID, time.Now().Format("20060102"))
	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return h.service.WriteMaintenanceCSV(ctx.Context(), ctx.Response().BodyWriter(), facilityID)
}
