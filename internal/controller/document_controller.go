package controller

import (
	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/pkg/serverutils"
	"github.com/reletz/cornelius/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Add(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1/:session_id/document")
	h.Get("", c.GetAll)
	h.Post("", c.Add)
	h.Delete(":id", c.Delete)
}

func (c *documentController) Add(ctx *fiber.Ctx) error {
	sessionId, _ := uuid.Parse(ctx.Params("session_id"))

	var req dto.AddDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Add(ctx.Context(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add document", res))
}

func (c *documentController) GetAll(ctx *fiber.Ctx) error {
	sessionId, _ := uuid.Parse(ctx.Params("session_id"))

	res, err := c.service.GetAll(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all documents", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	sessionId, _ := uuid.Parse(ctx.Params("session_id"))
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.service.Delete(ctx.Context(), sessionId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}
