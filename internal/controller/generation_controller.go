package controller

import (
	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/pkg/serverutils"
	"github.com/reletz/cornelius/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Regenerate(ctx *fiber.Ctx) error
	TaskStatus(ctx *fiber.Ctx) error
	TopicStatuses(ctx *fiber.Ctx) error
}

type generationController struct {
	service service.IGenerationService
}

func NewGenerationController(service service.IGenerationService) IGenerationController {
	return &generationController{service: service}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generation/v1")
	h.Post("session/:session_id", serverutils.ApiKeyMiddleware, c.Generate)
	h.Post("topic/:topic_id/regenerate", serverutils.ApiKeyMiddleware, c.Regenerate)
	h.Get("task/:task_id", c.TaskStatus)
	h.Get("session/:session_id/status", c.TopicStatuses)
}

func (c *generationController) Generate(ctx *fiber.Ctx) error {
	sessionId, _ := uuid.Parse(ctx.Params("session_id"))

	var req dto.GenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.StartGeneration(ctx.Context(), sessionId, serverutils.ApiKeyFromLocals(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Generation started", res))
}

func (c *generationController) Regenerate(ctx *fiber.Ctx) error {
	topicId, _ := uuid.Parse(ctx.Params("topic_id"))

	var req dto.PromptConfig
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.RegenerateTopic(ctx.Context(), topicId, serverutils.ApiKeyFromLocals(ctx), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Regeneration started", res))
}

func (c *generationController) TaskStatus(ctx *fiber.Ctx) error {
	taskId, _ := uuid.Parse(ctx.Params("task_id"))

	res, err := c.service.GetTaskStatus(taskId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get task status", res))
}

func (c *generationController) TopicStatuses(ctx *fiber.Ctx) error {
	sessionId, _ := uuid.Parse(ctx.Params("session_id"))

	res, err := c.service.GetTopicStatuses(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get topic statuses", res))
}

