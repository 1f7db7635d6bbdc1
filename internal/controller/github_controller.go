package controller

import (
	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/pkg/serverutils"
	"github.com/reletz/cornelius/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGithubController interface {
	RegisterRoutes(r fiber.Router)
	Validate(ctx *fiber.Ctx) error
	SyncSession(ctx *fiber.Ctx) error
}

type githubController struct {
	service service.IGithubSyncService
}

func NewGithubController(service service.IGithubSyncService) IGithubController {
	return &githubController{service: service}
}

func (c *githubController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/github/v1")
	h.Post("validate", serverutils.GithubTokenMiddleware, c.Validate)
	h.Post("session/:session_id/sync", serverutils.GithubTokenMiddleware, c.SyncSession)
}

// Validate checks the token and repository before any sync is attempted.
func (c *githubController) Validate(ctx *fiber.Ctx) error {
	request := new(dto.GithubValidateRequest)
	if err := ctx.BodyParser(request); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(request); err != nil {
		return err
	}

	res, err := c.service.ValidateConfig(ctx.Context(), serverutils.GithubTokenFromLocals(ctx), request)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("GitHub configuration is valid", res))
}

// SyncSession pushes the session's notes to the requested repository.
func (c *githubController) SyncSession(ctx *fiber.Ctx) error {
	sessionId, _ := uuid.Parse(ctx.Params("session_id"))

	request := new(dto.GithubSyncRequest)
	if err := ctx.BodyParser(request); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(request); err != nil {
		return err
	}

	res, err := c.service.SyncSession(ctx.Context(), sessionId, serverutils.GithubTokenFromLocals(ctx), request)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Sync finished", res))
}
