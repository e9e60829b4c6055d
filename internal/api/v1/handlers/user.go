package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskease/internal/middleware"
	"taskease/internal/service"
)

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	who := middleware.IdentityFromCtx(c)
	user, err := h.Users.Profile(c.UserContext(), who)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Profile fetched successfully", user)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	type UpdateProfileRequest struct {
		Name     *string `json:"name" validate:"omitempty,min=1"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Password *string `json:"password" validate:"omitempty,min=6"`
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Validation error: "+err.Error())
	}

	who := middleware.IdentityFromCtx(c)
	user, err := h.Users.UpdateProfile(c.UserContext(), who, service.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Profile updated successfully", user)
}
