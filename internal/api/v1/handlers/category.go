package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskease/internal/middleware"
)

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Validation error: "+err.Error())
	}

	who := middleware.IdentityFromCtx(c)
	category, err := h.Categories.Create(c.UserContext(), who, req.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, "Category created successfully", category)
}

func (h *Handler) ListCategories(c *fiber.Ctx) error {
	who := middleware.IdentityFromCtx(c)
	categories, err := h.Categories.List(c.UserContext(), who)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Categories fetched successfully", categories)
}

func (h *Handler) GetCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}
	who := middleware.IdentityFromCtx(c)
	category, err := h.Categories.Get(c.UserContext(), who, id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Category fetched successfully", category)
}

func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Validation error: "+err.Error())
	}

	who := middleware.IdentityFromCtx(c)
	category, err := h.Categories.Update(c.UserContext(), who, id, req.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Category updated successfully", category)
}

func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}
	who := middleware.IdentityFromCtx(c)
	if err := h.Categories.Delete(c.UserContext(), who, id); err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Category deleted successfully", nil)
}
