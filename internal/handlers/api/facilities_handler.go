package api

import (
	"errors"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/facilities"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares"
	"github.com/gofiber/fiber/v2"
)

type FacilitiesHandler struct {
	repo facilities.FacilityRepository
}

func NewFacilitiesHandler(repo facilities.FacilityRepository) *FacilitiesHandler {
	return &FacilitiesHandler{repo: repo}
}

func (h *FacilitiesHandler) Register(router fiber.Router) {
	router.Get("/", h.ListFacilities)
	router.Get("/:facility", h.GetFacility)
}

// ListFacilities returns every facility for admins and only the granted ones
// for everyone else.
func (h *FacilitiesHandler) ListFacilities(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	if user.IsAdmin() {
		list, err := h.repo.List(ctx.Context())
		if err != nil {
			return err
		}
		return respondData(ctx, list)
	}
	list, err := h.repo.ListForUser(ctx.Context(), user.ID)
	if err != nil {
		return err
	}
	return respondData(ctx, list)
}

func (h *FacilitiesHandler) GetFacility(ctx *fiber.Ctx) error {
	facility, err := h.repo.GetByID(ctx.Context(), facilityParam(ctx))
	if errors.Is(err, facilities.ErrFacilityNotFound) {
		return respondNotFound(ctx)
	}
	if err != nil {
		return err
	}
	return respondData(ctx, facility)
}
