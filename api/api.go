package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/agent"
	"github.com/papercomputeco/tasktape/pkg/store"
)

// Server is the HTTP API server. It owns routing only; conversation
// orchestration lives in the agent runner and persistence in the store.
type Server struct {
	config  Config
	store   *store.Store
	runner  *agent.Runner
	builder *agent.ContextBuilder
	logger  *zap.Logger
	app     *fiber.App
}

// NewServer creates a new API server.
// The store and runner are injected to allow sharing with other components.
func NewServer(config Config, st *store.Store, runner *agent.Runner, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		store:   st,
		runner:  runner,
		builder: agent.NewContextBuilder(st, logger),
		logger:  logger,
		app:     app,
	}

	app.Get("/ping", s.handlePing)

	app.Post("/api/:userID/chat", s.handleChat)

	app.Get("/api/:userID/tasks", s.handleListTasks)
	app.Post("/api/:userID/tasks", s.handleCreateTask)
	app.Get("/api/:userID/tasks/:taskID", s.handleGetTask)
	app.Patch("/api/:userID/tasks/:taskID", s.handleUpdateTask)
	app.Delete("/api/:userID/tasks/:taskID", s.handleDeleteTask)

	app.Get("/api/:userID/conversations", s.handleListConversations)
	app.Get("/api/:userID/conversations/:conversationID/messages", s.handleListMessages)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// userID extracts and validates the path user identifier.
func userID(c *fiber.Ctx) (string, bool) {
	id := c.Params("userID")
	return id, id != ""
}
