package controller

import (
	"fmt"

	"github.com/reletz/cornelius/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IExportController interface {
	RegisterRoutes(r fiber.Router)
	ExportSession(ctx *fiber.Ctx) error
}

type exportController struct {
	service service.IExportService
}

func NewExportController(service service.IExportService) IExportController {
	return &exportController{service: service}
}

func (c *exportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/export/v1")
	h.Get("session/:session_id", c.ExportSession)
}

// ExportSession streams the session's notes as a ZIP download.
func (c *exportController) ExportSession(ctx *fiber.Ctx) error {
	sessionId, _ := uuid.Parse(ctx.Params("session_id"))

	filename, archive, err := c.service.ExportSession(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/zip")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Send(archive)
}
