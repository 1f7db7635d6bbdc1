package controller

import (
	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/pkg/serverutils"
	"github.com/reletz/cornelius/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITopicController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	Merge(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type topicController struct {
	service    service.ITopicService
	clustering service.IClusteringService
}

func NewTopicController(service service.ITopicService, clustering service.IClusteringService) ITopicController {
	return &topicController{service: service, clustering: clustering}
}

func (c *topicController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1/:session_id/topic")
	h.Get("", c.GetAll)
	h.Post("analyze", serverutils.ApiKeyMiddleware, c.Analyze)
	h.Post("merge", c.Merge)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *topicController) GetAll(ctx *fiber.Ctx) error {
	sessionId, _ := uuid.Parse(ctx.Params("session_id"))

	res, err := c.service.GetAll(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all topics", res))
}

// Analyze clusters the session's documents into a fresh topic set.
func (c *topicController) Analyze(ctx *fiber.Ctx) error {
	sessionId, _ := uuid.Parse(ctx.Params("session_id"))

	res, err := c.clustering.Analyze(ctx.Context(), sessionId, serverutils.ApiKeyFromLocals(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze session", res))
}

func (c *topicController) Merge(ctx *fiber.Ctx) error {
	sessionId, _ := uuid.Parse(ctx.Params("session_id"))

	var req dto.MergeTopicsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Merge(ctx.Context(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success merge topics", res))
}

func (c *topicController) Update(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateTopicRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update topic", res))
}

func (c *topicController) Delete(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete topic", nil))
}
