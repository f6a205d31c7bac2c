package controller

import (
	"legalchat-be/internal/dto"
	"legalchat-be/internal/pkg/serverutils"
	"legalchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ListFiles(ctx *fiber.Ctx) error
	DeleteFile(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	fileService service.IFileService
}

func NewChatController(chatService service.IChatService, fileService service.IFileService) IChatController {
	return &chatController{
		chatService: chatService,
		fileService: fileService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1", serverutils.JwtMiddleware)
	h.Post("/", c.Create)
	h.Get("/", c.List)
	h.Get("/:id/messages", c.GetMessages)
	h.Delete("/:id", c.Delete)
	h.Get("/:id/files", c.ListFiles)
	h.Delete("/:id/files/:fileId", c.DeleteFile)
}

func (c *chatController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.NewChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
	}

	res, err := c.chatService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	fileId, err := optionalUUIDQuery(ctx, "fileId")
	if err != nil {
		return serverutils.ErrBadRequest
	}

	res, err := c.chatService.List(ctx.Context(), userId, fileId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	fileId, err := optionalUUIDQuery(ctx, "fileId")
	if err != nil {
		return serverutils.ErrBadRequest
	}

	var cursor *uuid.UUID
	if raw := ctx.Query("cursor"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return serverutils.ErrBadRequest
		}
		cursor = &id
	}

	limit := ctx.QueryInt("limit")

	res, err := c.chatService.GetMessages(ctx.Context(), userId, ctx.Params("id"), fileId, limit, cursor)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	chatId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	fileId, err := optionalUUIDQuery(ctx, "fileId")
	if err != nil {
		return serverutils.ErrBadRequest
	}

	res, err := c.chatService.Delete(ctx.Context(), userId, chatId, fileId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) ListFiles(ctx *fiber.Ctx) error {
	chatId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	res, err := c.fileService.ListChatFiles(ctx.Context(), chatId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) DeleteFile(ctx *fiber.Ctx) error {
	chatId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}
	fileId, err := uuid.Parse(ctx.Params("fileId"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	res, err := c.fileService.DeleteChatFile(ctx.Context(), chatId, fileId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func optionalUUIDQuery(ctx *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
