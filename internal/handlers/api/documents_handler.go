package api

import (
	"errors"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/access"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/documents"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
)

type DocumentsHandler struct {
	service *documents.DocumentService
	policy  *access.DocumentPolicy
}

func NewDocumentsHandler(service *documents.DocumentService, policy *access.DocumentPolicy) *DocumentsHandler {
	return &DocumentsHandler{
		service: service,
		policy:  policy,
	}
}

// Register mounts the document routes on a /facilities/:facility/documents
// subgroup.
func (h *DocumentsHandler) Register(router fiber.Router) {
	router.Get("/folders", h.ListFolders)
	router.Post("/folders", h.CreateFolder)
	router.Delete("/folders/:id", h.DeleteFolder)
	router.Get("/files", h.ListFiles)
	router.Post("/files", h.UploadFile)
	router.Get("/files/:id/download", h.DownloadFile)
	router.Delete("/files/:id", h.DeleteFile)
}

func optionalIDQuery(ctx *fiber.Ctx, name string) *uint {
	if val := ctx.Query(name); val != "" {
		if id := cast.ToUint(val); id != 0 {
			return &id
		}
	}
	return nil
}

func (h *DocumentsHandler) ListFolders(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	facilityID := facilityParam(ctx)
	allowed, err := h.policy.View(ctx.Context(), user, facilityID)
	if err != nil {
		return err
	}
	if !allowed {
		return respondForbidden(ctx)
	}
	folders, err := h.service.ListFolders(ctx.Context(), facilityID, optionalIDQuery(ctx, "parent"))
	if err != nil {
		return err
	}
	return respondData(ctx, folders)
}

type createFolderRequest struct {
	Name     string `json:"name" form:"name"`
	ParentID *uint  `json:"parent_id" form:"parent_id"`
}

func (h *DocumentsHandler) CreateFolder(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	facilityID := facilityParam(ctx)
	allowed, err := h.policy.Create(ctx.Context(), user, facilityID)
	if err != nil {
		return err
	}
	if !allowed {
		return respondForbidden(ctx)
	}

	var req createFolderRequest
	if err := ctx.BodyParser(&req); err != nil || req.Name == "" {
		return respondError(ctx, fiber.StatusBadRequest, "フォルダ名を入力してください。")
	}
	folder, err := h.service.CreateFolder(ctx.Context(), facilityID, req.ParentID, req.Name, user.ID)
	if errors.Is(err, documents.ErrFolderNotFound) {
		return respondNotFound(ctx)
	}
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": folder})
}

// DeleteFolder enforces the folder deletion rule: a non-empty folder needs an
// admin even when the caller could otherwise edit.
func (h *DocumentsHandler) DeleteFolder(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	facilityID := facilityParam(ctx)
	folderID := idParam(ctx)

	if _, err := h.service.GetFolder(ctx.Context(), facilityID, folderID); err != nil {
		if errors.Is(err, documents.ErrFolderNotFound) {
			return respondNotFound(ctx)
		}
		return err
	}
	children, files, err := h.service.FolderContents(ctx.Context(), folderID)
	if err != nil {
		return err
	}
	allowed, err := h.policy.DeleteFolder(ctx.Context(), user, facilityID, children, files)
	if err != nil {
		return err
	}
	if !allowed {
		return respondForbidden(ctx)
	}
	if err := h.service.DeleteFolder(ctx.Context(), facilityID, folderID); err != nil {
		return err
	}
	return respondData(ctx, fiber.Map{"id": folderID})
}

func (h *DocumentsHandler) ListFiles(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	facilityID := facilityParam(ctx)
	allowed, err := h.policy.View(ctx.Context(), user, facilityID)
	if err != nil {
		return err
	}
	if !allowed {
		return respondForbidden(ctx)
	}
	files, err := h.service.ListFiles(ctx.Context(), facilityID, optionalIDQuery(ctx, "folder"))
	if err != nil {
		return err
	}
	return respondData(ctx, files)
}

func (h *DocumentsHandler) UploadFile(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	facilityID := facilityParam(ctx)
	allowed, err := h.policy.Create(ctx.Context(), user, facilityID)
	if err != nil {
		return err
	}
	if !allowed {
		return respondForbidden(ctx)
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		return respondError(ctx, fiber.StatusBadRequest, "ファイルを選択してください。")
	}
	var folderID *uint
	if val := ctx.FormValue("folder_id"); val != "" {
		if id := cast.ToUint(val); id != 0 {
			folderID = &id
		}
	}
	file, err := h.service.SaveUpload(ctx.Context(), facilityID, folderID, header, user.ID)
	if errors.Is(err, documents.ErrFolderNotFound) {
		return respondNotFound(ctx)
	}
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": file})
}

func (h *DocumentsHandler) DownloadFile(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	facilityID := facilityParam(ctx)
	allowed, err := h.policy.View(ctx.Context(), user, facilityID)
	if err != nil {
		return err
	}
	if !allowed {
		return respondForbidden(ctx)
	}
	file, err := h.service.GetFile(ctx.Context(), facilityID, idParam(ctx))
	if errors.Is(err, documents.ErrFileNotFound) {
		return respondNotFound(ctx)
	}
	if err != nil {
		return err
	}
	return ctx.Download(h.service.FilePath(file), file.OriginalName)
}

func (h *DocumentsHandler) DeleteFile(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	facilityID := facilityParam(ctx)
	allowed, err := h.policy.Delete(ctx.Context(), user, facilityID)
	if err != nil {
		return err
	}
	if !allowed {
		return respondForbidden(ctx)
	}
	if err := h.service.DeleteFile(ctx.Context(), facilityID, idParam(ctx)); err != nil {
		if errors.Is(err, documents.ErrFileNotFound) {
			return respondNotFound(ctx)
		}
		return err
	}
	return respondData(ctx, fiber.Map{"id": idParam(ctx)})
}
