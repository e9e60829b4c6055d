package v1

import (
	"github.com/gofiber/fiber/v2"

	"taskease/internal/api/v1/handlers"
)

// RegisterRoutes mounts the REST surface under /api/v1. The token guard is
// installed app-wide by the caller, so handlers here can assume an identity.
func RegisterRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	// Auth
	api.Post("/auth/register", h.Register)
	api.Post("/auth/login", h.Login)

	// Profile
	api.Get("/users/me", h.GetProfile)
	api.Put("/users/me", h.UpdateProfile)

	// Tasks. The summary route must precede /:id so "summary" is not
	// parsed as a task id.
	api.Post("/tasks", h.CreateTask)
	api.Get("/tasks", h.ListTasks)
	api.Get("/tasks/summary", h.GetTaskSummary)
	api.Get("/tasks/:id", h.GetTask)
	api.Put("/tasks/:id", h.UpdateTask)
	api.Delete("/tasks/:id", h.DeleteTask)

	// Notes under a task, then by id
	api.Post("/tasks/:taskId/notes", h.CreateNote)
	api.Get("/tasks/:taskId/notes", h.ListTaskNotes)
	api.Get("/notes/:id", h.GetNote)
	api.Put("/notes/:id", h.UpdateNote)
	api.Delete("/notes/:id", h.DeleteNote)

	// Categories
	api.Post("/categories", h.CreateCategory)
	api.Get("/categories", h.ListCategories)
	api.Get("/categories/:id", h.GetCategory)
	api.Put("/categories/:id", h.UpdateCategory)
	api.Delete("/categories/:id", h.DeleteCategory)
}
