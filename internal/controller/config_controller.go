package controller

import (
	"github.com/reletz/cornelius/internal/pkg/serverutils"
	"github.com/reletz/cornelius/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConfigController interface {
	RegisterRoutes(r fiber.Router)
	ValidateKey(ctx *fiber.Ctx) error
}

type configController struct {
	generation service.IGenerationService
}

func NewConfigController(generation service.IGenerationService) IConfigController {
	return &configController{generation: generation}
}

func (c *configController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/config/v1")
	h.Post("validate-key", serverutils.ApiKeyMiddleware, c.ValidateKey)
}

// ValidateKey probes the provider with the supplied credential. The key is
// read from the request header and never persisted.
func (c *configController) ValidateKey(ctx *fiber.Ctx) error {
	res := c.generation.ValidateKey(ctx.Context(), serverutils.ApiKeyFromLocals(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Key validation finished", res))
}
