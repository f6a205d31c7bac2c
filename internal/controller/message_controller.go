package controller

import (
	"bufio"

	"legalchat-be/internal/dto"
	"legalchat-be/internal/pkg/serverutils"
	"legalchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IMessageController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
}

type messageController struct {
	messageService service.IMessageService
}

func NewMessageController(messageService service.IMessageService) IMessageController {
	return &messageController{messageService: messageService}
}

func (c *messageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/message/v1", serverutils.JwtMiddleware)
	h.Post("/", c.Send)
}

// Send streams the assistant reply as plain text chunks. Errors before
// the first persisted write map to HTTP statuses; after that the turn
// always streams something, possibly the fallback reply.
func (c *messageController) Send(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
	}

	chunks, err := c.messageService.Send(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for chunk := range chunks {
			if _, err := w.WriteString(chunk); err != nil {
				drain(chunks)
				return
			}
			if err := w.Flush(); err != nil {
				drain(chunks)
				return
			}
		}
	}))
	return nil
}

// drain keeps consuming after the client is gone so generation runs to
// completion and the reply is persisted.
func drain(chunks <-chan string) {
	for range chunks {
	}
}
