package api

import (
	"github.com/Izumi-Yuya/shicecal-sub015/internal/access"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/activity"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/settings"
	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
)

// AdminHandler serves the audit-log screen and the system settings store.
type AdminHandler struct {
	activityService *activity.Service
	settingsService *settings.Service
}

func NewAdminHandler(activityService *activity.Service, settingsService *settings.Service) *AdminHandler {
	return &AdminHandler{
		activityService: activityService,
		settingsService: settingsService,
	}
}

func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/activity-logs", h.ListActivityLogs)
	router.Get("/settings/allowed-ips", h.GetAllowedIPs)
	router.Put("/settings/allowed-ips", h.PutAllowedIPs)
}

func (h *AdminHandler) ListActivityLogs(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	if !access.CanViewAuditLogs(user) {
		return respondForbidden(ctx)
	}
	entries, err := h.activityService.List(ctx.Context(), activity.Filter{
		UserID:     cast.ToUint(ctx.Query("user")),
		Action:     ctx.Query("action"),
		TargetType: ctx.Query("target_type"),
		Limit:      cast.ToInt(ctx.Query("limit")),
		Offset:     cast.ToInt(ctx.Query("offset")),
	})
	if err != nil {
		return err
	}
	return respondData(ctx, entries)
}

func (h *AdminHandler) GetAllowedIPs(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	if !access.CanManageSettings(user) {
		return respondForbidden(ctx)
	}
	return respondData(ctx, h.settingsService.AllowedIPs(ctx.Context()))
}

type putAllowedIPsRequest struct {
	AllowedIPs []string `json:"allowed_ips"`
}

func (h *AdminHandler) PutAllowedIPs(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	if !access.CanManageSettings(user) {
		return respondForbidden(ctx)
	}
	var req putAllowedIPsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return respondError(ctx, fiber.StatusBadRequest, "リクエスト形式が正しくありません。")
	}
	if err := h.settingsService.PutJSON(ctx.Context(), model.SettingAllowedIPs, req.AllowedIPs, user.ID); err != nil {
		return err
	}
	return respondData(ctx, req.AllowedIPs)
}
