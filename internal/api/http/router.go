package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/spec-kit/task-tracker/internal/api/http/handlers"
	"github.com/spec-kit/task-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Users    *handlers.UsersHandler
	Projects *handlers.ProjectsHandler
	Tasks    *handlers.TasksHandler
	WS       *handlers.WSHandler
	Guard    *auth.Guard
}

// RegisterRoutes wires HTTP routes. Authorization is not declared per
// route here: the guard evaluates every request against the ordered
// policy rule table before any handler runs.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Guard.Handle)

	app.Get("/healthz", cfg.Health.Live)
	app.Get("/readyz", cfg.Health.Ready)

	app.Post("/register", cfg.Auth.Register)
	app.Post("/login", cfg.Auth.Login)

	app.Get("/users", cfg.Users.List)
	app.Post("/users", cfg.Users.Create)
	app.Put("/users/:id", cfg.Users.Update)
	app.Delete("/users/:id", cfg.Users.Delete)

	app.Get("/projects", cfg.Projects.List)
	app.Post("/projects", cfg.Projects.Create)
	app.Get("/projects/:id", cfg.Projects.Get)
	app.Delete("/projects/:id", cfg.Projects.Delete)

	app.Get("/projects/:projectId/tasks", cfg.Tasks.ListByProject)
	app.Post("/projects/:projectId/tasks", cfg.Tasks.Create)
	app.Get("/tasks/:id", cfg.Tasks.Get)
	app.Put("/tasks/:id", cfg.Tasks.Update)
	app.Delete("/tasks/:id", cfg.Tasks.Delete)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(cfg.WS.Serve))
}
