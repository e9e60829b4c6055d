package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskease/internal/middleware"
)

type noteRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *Handler) CreateNote(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("taskId")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}
	var req noteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Validation error: "+err.Error())
	}

	who := middleware.IdentityFromCtx(c)
	note, err := h.Notes.Create(c.UserContext(), who, taskID, req.Content)
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, "Note created successfully", note)
}

func (h *Handler) ListTaskNotes(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("taskId")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}
	who := middleware.IdentityFromCtx(c)
	notes, err := h.Notes.ListByTask(c.UserContext(), who, taskID)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Notes fetched successfully", notes)
}

func (h *Handler) GetNote(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid note ID")
	}
	who := middleware.IdentityFromCtx(c)
	note, err := h.Notes.Get(c.UserContext(), who, id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Note fetched successfully", note)
}

func (h *Handler) UpdateNote(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid note ID")
	}
	var req noteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Validation error: "+err.Error())
	}

	who := middleware.IdentityFromCtx(c)
	note, err := h.Notes.Update(c.UserContext(), who, id, req.Content)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Note updated successfully", note)
}

func (h *Handler) DeleteNote(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid note ID")
	}
	who := middleware.IdentityFromCtx(c)
	if err := h.Notes.Delete(c.UserContext(), who, id); err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Note deleted successfully", nil)
}
