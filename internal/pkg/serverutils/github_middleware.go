package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

const githubTokenLocal = "github_token"

// GithubTokenMiddleware pulls the per-request personal access token out of
// the X-GitHub-Token header. Like the model credential, it is forwarded to
// GitHub and never stored server-side.
func GithubTokenMiddleware(ctx *fiber.Ctx) error {
	token := ctx.Get("X-GitHub-Token")
	if token == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Missing X-GitHub-Token header"))
	}
	ctx.Locals(githubTokenLocal, token)
	return ctx.Next()
}

// GithubTokenFromLocals reads the token stored by GithubTokenMiddleware.
func GithubTokenFromLocals(ctx *fiber.Ctx) string {
	if v, ok := ctx.Locals(githubTokenLocal).(string); ok {
		return v
	}
	return ""
}
