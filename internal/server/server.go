package server

import (
	"log"

	"github.com/reletz/cornelius/internal/bootstrap"
	"github.com/reletz/cornelius/internal/config"
	"github.com/reletz/cornelius/internal/pkg/serverutils"
	internalWS "github.com/reletz/cornelius/internal/websocket"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, documents arrive as extracted text
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, X-API-Key, X-GitHub-Token",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.SessionController.RegisterRoutes(api)
	c.DocumentController.RegisterRoutes(api)
	c.TopicController.RegisterRoutes(api)
	c.NoteController.RegisterRoutes(api)
	c.GenerationController.RegisterRoutes(api)
	c.ExportController.RegisterRoutes(api)
	c.ConfigController.RegisterRoutes(api)
	c.GithubController.RegisterRoutes(api)

	// Live generation events, one stream per session.
	app.Get("/ws/:session_id", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		sessionId, err := uuid.Parse(ctx.Params("session_id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
		}
		return websocket.New(func(conn *websocket.Conn) {
			internalWS.ServeWs(c.WebSocketHub, conn, sessionId)
		})(ctx)
	})
}
