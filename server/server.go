// Package server exposes the interactive views over HTTP and websocket.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/uyouii/mollifier/config"
	"github.com/uyouii/mollifier/utils"
)

type Server struct {
	app   *fiber.App
	addr  string
	cfg   *config.Config
	store *SessionStore
}

func NewServer(cfg *config.Config) *Server {
	s := &Server{
		addr:  cfg.Addr,
		cfg:   cfg,
		store: NewSessionStore(cfg.Views, cfg.ViewOptions()),
	}

	app := fiber.New(fiber.Config{
		AppName:               "mollifier",
		DisableStartupMessage: true,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			utils.GetLogger(c.UserContext()).Error("handler recover panic error!", zap.Any("err", e),
				zap.String("path", c.Path()), zap.String("panic info", utils.GetPanicInfo()))
		},
	}))
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/views", s.handleListViews)
	api.Get("/convergence", s.handleConvergence)
	api.Post("/sessions", s.handleCreateSession)
	api.Delete("/sessions/:id", s.handleDeleteSession)
	// :view may carry a .svg or .png suffix
	api.Get("/sessions/:id/views/:view", s.handleScene)
	api.Post("/sessions/:id/views/:view/actions", s.handleAction)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/sessions/:id/convolution", websocket.New(s.handleConvolutionWS))

	s.app = app
	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Sessions() *SessionStore {
	return s.store
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	utils.GetLogger(ctx).Info("http server listening", zap.String("addr", s.addr))
	return s.app.Listen(s.addr)
}

// Shutdown stops the listener and every running animation.
func (s *Server) Shutdown(ctx context.Context) error {
	s.store.CloseAll()
	return s.app.ShutdownWithContext(ctx)
}
