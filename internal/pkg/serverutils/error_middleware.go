package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"pnm-assistant-be/internal/pkg/apperror"
)

// ErrorHandlerMiddleware converts errors bubbling out of controllers into the
// JSON envelope. Typed failures keep their taxonomy kind in the message so
// the client can distinguish a retrieval outage from a bad request.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		status := apperror.HTTPStatus(err)
		return ctx.Status(status).JSON(ErrorResponse(err.Error()))
	}
}
