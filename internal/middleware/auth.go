package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskease/internal/auth"
	"taskease/pkg/logger"
)

// IdentityKey is the Locals key the guard stores the verified identity under.
const IdentityKey = "identity"

// publicRoutes are the only method+path pairs reachable without a token.
// Everything else behind the guard requires a verified identity.
var publicRoutes = map[string]bool{
	"POST /api/v1/auth/register": true,
	"POST /api/v1/auth/login":    true,
}

// Guard verifies the bearer token on every non-public route and attaches
// the resulting identity to the request context.
func Guard(verifier *auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if publicRoutes[c.Method()+" "+c.Path()] {
			return c.Next()
		}

		raw, err := auth.TokenFromHeader(c.Get("Authorization"))
		if err != nil {
			logger.SecurityLogger.Warn("Rejected request without usable token",
				zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c, err)
		}
		ident, err := verifier.Verify(raw)
		if err != nil {
			logger.SecurityLogger.Warn("Rejected invalid token",
				zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c, err)
		}

		c.Locals(IdentityKey, ident)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, err error) error {
	msg := "Unauthorized"
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		msg = "No token provided"
	case errors.Is(err, auth.ErrTokenExpired):
		msg = "Token expired"
	case errors.Is(err, auth.ErrMalformedToken):
		msg = "Invalid token format"
	case errors.Is(err, auth.ErrInvalidSignature), errors.Is(err, auth.ErrInvalidPayload):
		msg = "Invalid token"
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": msg,
		"success": false,
		"status":  fiber.StatusUnauthorized,
	})
}

// IdentityFromCtx returns the identity the guard attached. Calling it on a
// route that is not behind the guard is a programming error and panics.
func IdentityFromCtx(c *fiber.Ctx) auth.Identity {
	ident, ok := c.Locals(IdentityKey).(auth.Identity)
	if !ok {
		panic("middleware: no identity in request context")
	}
	return ident
}
