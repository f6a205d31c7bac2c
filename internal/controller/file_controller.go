package controller

import (
	"legalchat-be/internal/pkg/serverutils"
	"legalchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	GetByKey(ctx *fiber.Ctx) error
	GetUploadStatus(ctx *fiber.Ctx) error
}

type fileController struct {
	fileService service.IFileService
}

func NewFileController(fileService service.IFileService) IFileController {
	return &fileController{fileService: fileService}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/file/v1", serverutils.JwtMiddleware)
	h.Get("/", c.List)
	h.Delete("/:id", c.Delete)
	h.Post("/key", c.GetByKey)
	h.Get("/:id/status", c.GetUploadStatus)
}

func (c *fileController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.fileService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *fileController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	res, err := c.fileService.Delete(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *fileController) GetByKey(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req struct {
		Key string `json:"key"`
	}
	if err := ctx.BodyParser(&req); err != nil || req.Key == "" {
		return serverutils.ErrBadRequest
	}

	res, err := c.fileService.GetByKey(ctx.Context(), userId, req.Key)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *fileController) GetUploadStatus(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	status, err := c.fileService.GetUploadStatus(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"status": status})
}
