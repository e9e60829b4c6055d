package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskease/internal/service"
	"taskease/pkg/logger"
)

// Handler carries the wired services for all route handlers.
type Handler struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Tasks      *service.TaskService
	Categories *service.CategoryService
	Notes      *service.NoteService

	validate *validator.Validate
}

func New(auth *service.AuthService, users *service.UserService, tasks *service.TaskService,
	categories *service.CategoryService, notes *service.NoteService) *Handler {
	return &Handler{
		Auth:       auth,
		Users:      users,
		Tasks:      tasks,
		Categories: categories,
		Notes:      notes,
		validate:   validator.New(),
	}
}

func ok(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"success": true,
		"status":  fiber.StatusOK,
		"data":    data,
	})
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"success": true,
		"status":  fiber.StatusCreated,
		"data":    data,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  status,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusBadRequest, message)
}

// serviceError maps service failures onto HTTP statuses. Anything not in the
// taxonomy is logged and reported as a 500 without leaking its cause.
func serviceError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return badRequest(c, verr.Reason)
	case errors.Is(err, service.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrEmailTaken):
		return fail(c, fiber.StatusConflict, "Email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	default:
		logger.ErrorLogger.Error("Unhandled service error",
			zap.String("path", c.Path()), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
