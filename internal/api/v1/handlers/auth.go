package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskease/internal/service"
)

func (h *Handler) Register(c *fiber.Ctx) error {
	type RegisterRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Validation error: "+err.Error())
	}

	token, user, err := h.Auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, "User registered successfully", fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		// A malformed login still answers 401 so the response does not
		// reveal which field was wrong.
		return serviceError(c, service.ErrInvalidCredentials)
	}

	token, user, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, "Login success", fiber.Map{
		"token": token,
		"user":  user,
	})
}
