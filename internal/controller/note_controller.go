package controller

import (
	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/pkg/serverutils"
	"github.com/reletz/cornelius/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	GetBySession(ctx *fiber.Ctx) error
	GetByTopic(ctx *fiber.Ctx) error
	Format(ctx *fiber.Ctx) error
	Validate(ctx *fiber.Ctx) error
}

type noteController struct {
	service service.INoteService
}

func NewNoteController(service service.INoteService) INoteController {
	return &noteController{service: service}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note/v1")
	h.Get("session/:session_id", c.GetBySession)
	h.Get("topic/:topic_id", c.GetByTopic)
	h.Post("format", c.Format)
	h.Post("validate", c.Validate)
}

func (c *noteController) GetBySession(ctx *fiber.Ctx) error {
	sessionId, _ := uuid.Parse(ctx.Params("session_id"))

	res, err := c.service.GetBySession(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session notes", res))
}

func (c *noteController) GetByTopic(ctx *fiber.Ctx) error {
	topicId, _ := uuid.Parse(ctx.Params("topic_id"))

	res, err := c.service.GetByTopic(ctx.Context(), topicId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get topic note", res))
}

// Format runs the deterministic Cornell formatter without touching storage.
func (c *noteController) Format(ctx *fiber.Ctx) error {
	var req dto.FormatNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success format note", c.service.Format(&req)))
}

func (c *noteController) Validate(ctx *fiber.Ctx) error {
	var req dto.ValidateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success validate note", c.service.Validate(&req)))
}
