package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/reletz/cornelius/pkg/llm"
)

// ErrorHandlerMiddleware maps typed errors from the service layer onto HTTP
// statuses so controllers can just return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		var confErr *llm.ConfigurationError
		if errors.As(err, &confErr) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(confErr.Error()))
		}

		var timeoutErr *llm.TimeoutError
		if errors.As(err, &timeoutErr) {
			return ctx.Status(fiber.StatusGatewayTimeout).JSON(ErrorResponse(timeoutErr.Error()))
		}

		var malformedErr *llm.MalformedResponseError
		if errors.As(err, &malformedErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(malformedErr.Error()))
		}

		var netErr *llm.NetworkError
		if errors.As(err, &netErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(netErr.Error()))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(err.Error()))
	}
}
