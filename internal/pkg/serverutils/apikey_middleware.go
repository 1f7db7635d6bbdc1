package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

const apiKeyLocal = "llm_api_key"

// ApiKeyMiddleware pulls the per-request model credential out of the
// X-API-Key header. The key is forwarded to the model provider and never
// stored server-side.
func ApiKeyMiddleware(ctx *fiber.Ctx) error {
	apiKey := ctx.Get("X-API-Key")
	if apiKey == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Missing X-API-Key header"))
	}
	ctx.Locals(apiKeyLocal, apiKey)
	return ctx.Next()
}

// ApiKeyFromLocals reads the credential stored by ApiKeyMiddleware.
func ApiKeyFromLocals(ctx *fiber.Ctx) string {
	if v, ok := ctx.Locals(apiKeyLocal).(string); ok {
		return v
	}
	return ""
}
