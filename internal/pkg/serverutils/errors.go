package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)

// ErrorHandlerMiddleware maps errors escaping a handler to their wire
// representation.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return ErrorHandler(ctx, err)
	}
}

// ErrorHandler maps sentinel errors to their wire representation. The 404
// and 401 bodies are the literal strings existing clients branch on;
// everything unrecognized becomes a 500.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).SendString("Not found")
	case errors.Is(err, ErrUnauthorized):
		return ctx.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	case errors.Is(err, ErrBadRequest):
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, err.Error()))
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}
