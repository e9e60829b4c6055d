package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"taskease/internal/middleware"
	"taskease/internal/models"
	"taskease/internal/service"
)

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	type CreateTaskRequest struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		Deadline    string `json:"deadline" validate:"required"`
		Status      string `json:"status"`
		CategoryID  *int   `json:"category_id"`
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Validation error: "+err.Error())
	}

	who := middleware.IdentityFromCtx(c)
	task, err := h.Tasks.Create(c.UserContext(), who, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Status:      models.TaskStatus(req.Status),
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, "Task created successfully", task)
}

func (h *Handler) ListTasks(c *fiber.Ctx) error {
	who := middleware.IdentityFromCtx(c)
	tasks, err := h.Tasks.List(c.UserContext(), who, service.ListTasksInput{
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Tasks fetched successfully", tasks)
}

func (h *Handler) GetTaskSummary(c *fiber.Ctx) error {
	who := middleware.IdentityFromCtx(c)
	summary, err := h.Tasks.Summarize(c.UserContext(), who, time.Now())
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Task summary fetched successfully", summary)
}

func (h *Handler) GetTask(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}
	who := middleware.IdentityFromCtx(c)
	task, err := h.Tasks.Get(c.UserContext(), who, id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Task fetched successfully", task)
}

func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	type UpdateTaskRequest struct {
		Title       *string `json:"title" validate:"omitempty,min=1"`
		Description *string `json:"description"`
		Deadline    *string `json:"deadline"`
		Status      *string `json:"status"`
		CategoryID  *int    `json:"category_id"`
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Validation error: "+err.Error())
	}

	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		CategoryID:  req.CategoryID,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		in.Status = &status
	}

	who := middleware.IdentityFromCtx(c)
	task, err := h.Tasks.Update(c.UserContext(), who, id, in)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Task updated successfully", task)
}

func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}
	who := middleware.IdentityFromCtx(c)
	if err := h.Tasks.Delete(c.UserContext(), who, id); err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Task deleted successfully", nil)
}
