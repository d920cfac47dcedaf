package api

import (
	"errors"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/access"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/resources"
	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"github.com/gofiber/fiber/v2"
)

// ResourceHandler serves one facility-scoped record type behind its policy.
// The five guarded resources share the same route shape: list, get, update,
// approve, reject.
type ResourceHandler[T any] struct {
	repo            *resources.Repository[T]
	policy          access.Policy
	facilityID      func(*T) uint
	updatableFields map[string]bool
}

func NewResourceHandler[T any](
	repo *resources.Repository[T],
	policy access.Policy,
	facilityID func(*T) uint,
	updatableFields []string,
) *ResourceHandler[T] {
	fields := make(map[string]bool, len(updatableFields))
	for _, field := range updatableFields {
		fields[field] = true
	}
	return &ResourceHandler[T]{
		repo:            repo,
		policy:          policy,
		facilityID:      facilityID,
		updatableFields: fields,
	}
}

// Register mounts the resource routes on a /facilities/:facility subgroup.
func (h *ResourceHandler[T]) Register(router fiber.Router) {
	router.Get("/", h.List)
	router.Get("/:id", h.Get)
	router.Put("/:id", h.Update)
	router.Post("/:id/approve", h.Approve)
	router.Post("/:id/reject", h.Reject)
}

func (h *ResourceHandler[T]) load(ctx *fiber.Ctx) (*T, error) {
	record, err := h.repo.Get(ctx.Context(), idParam(ctx))
	if err != nil {
		return nil, err
	}
	if h.facilityID(record) != facilityParam(ctx) {
		return nil, resources.ErrRecordNotFound
	}
	return record, nil
}

func (h *ResourceHandler[T]) List(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	facilityID := facilityParam(ctx)
	allowed, err := h.policy.View(ctx.Context(), user, facilityID)
	if err != nil {
		return err
	}
	if !allowed {
		return respondForbidden(ctx)
	}
	records, err := h.repo.ListByFacility(ctx.Context(), facilityID)
	if err != nil {
		return err
	}
	return respondData(ctx, records)
}

func (h *ResourceHandler[T]) Get(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	allowed, err := h.policy.View(ctx.Context(), user, facilityParam(ctx))
	if err != nil {
		return err
	}
	if !allowed {
		return respondForbidden(ctx)
	}
	record, err := h.load(ctx)
	if errors.Is(err, resources.ErrRecordNotFound) {
		return respondNotFound(ctx)
	}
	if err != nil {
		return err
	}
	return respondData(ctx, record)
}

func (h *ResourceHandler[T]) Update(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	allowed, err := h.policy.Update(ctx.Context(), user, facilityParam(ctx))
	if err != nil {
		return err
	}
	if !allowed {
		return respondForbidden(ctx)
	}
	if _, err := h.load(ctx); err != nil {
		if errors.Is(err, resources.ErrRecordNotFound) {
			return respondNotFound(ctx)
		}
		return err
	}

	var body map[string]interface{}
	if err := ctx.BodyParser(&body); err != nil {
		return respondError(ctx, fiber.StatusBadRequest, "リクエスト形式が正しくありません。")
	}
	columns := make(map[string]interface{})
	for field, value := range body {
		if h.updatableFields[field] {
			columns[field] = value
		}
	}
	if len(columns) == 0 {
		return respondError(ctx, fiber.StatusBadRequest, "更新できる項目がありません。")
	}
	columns["updated_by"] = user.ID
	columns["approval_status"] = model.ApprovalStatusPending
	if err := h.repo.Updates(ctx.Context(), idParam(ctx), columns); err != nil {
		return err
	}
	return respondData(ctx, fiber.Map{"id": idParam(ctx)})
}

func (h *ResourceHandler[T]) setStatus(ctx *fiber.Ctx, status string) error {
	user := middlewares.CurrentUser(ctx)
	allowed, err := h.policy.Approve(ctx.Context(), user, facilityParam(ctx))
	if err != nil {
		return err
	}
	if !allowed {
		return respondForbidden(ctx)
	}
	if _, err := h.load(ctx); err != nil {
		if errors.Is(err, resources.ErrRecordNotFound) {
			return respondNotFound(ctx)
		}
		return err
	}
	if err := h.repo.SetApprovalStatus(ctx.Context(), idParam(ctx), status, user.ID); err != nil {
		return err
	}
	return respondData(ctx, fiber.Map{"id": idParam(ctx), "approval_status": status})
}

func (h *ResourceHandler[T]) Approve(ctx *fiber.Ctx) error {
	return h.setStatus(ctx, model.ApprovalStatusApproved)
}

func (h *ResourceHandler[T]) Reject(ctx *fiber.Ctx) error {
	return h.setStatus(ctx, model.ApprovalStatusRejected)
}
