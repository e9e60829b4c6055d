package middleware

import (
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskease/internal/auth"
	"taskease/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitTestLoggers()
	os.Exit(m.Run())
}

func newGuardedApp(verifier *auth.Verifier) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandler())
	app.Use(Guard(verifier))
	app.Post("/api/v1/auth/register", func(c *fiber.Ctx) error {
		return c.SendString("public")
	})
	app.Get("/api/v1/tasks", func(c *fiber.Ctx) error {
		ident := IdentityFromCtx(c)
		return c.JSON(fiber.Map{"sub": ident.SubjectID, "email": ident.Email})
	})
	return app
}

func TestGuardPublicRoute(t *testing.T) {
	app := newGuardedApp(auth.NewVerifier([]byte("s"), time.Hour))

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/auth/register", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGuardMissingToken(t *testing.T) {
	app := newGuardedApp(auth.NewVerifier([]byte("s"), time.Hour))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/tasks", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGuardBadTokens(t *testing.T) {
	verifier := auth.NewVerifier([]byte("s"), time.Hour)
	other := auth.NewVerifier([]byte("not-the-secret"), time.Hour)
	expired := auth.NewVerifier([]byte("s"), -time.Hour)

	otherToken, err := other.Issue(1, "a@b.c", "A")
	require.NoError(t, err)
	expiredToken, err := expired.Issue(1, "a@b.c", "A")
	require.NoError(t, err)

	cases := map[string]string{
		"garbage":         "Bearer not.a.token",
		"wrong scheme":    "Basic abc",
		"wrong signature": "Bearer " + otherToken,
		"expired":         "Bearer " + expiredToken,
	}
	app := newGuardedApp(verifier)
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/tasks", nil)
			req.Header.Set("Authorization", header)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestGuardAttachesIdentity(t *testing.T) {
	verifier := auth.NewVerifier([]byte("s"), time.Hour)
	token, err := verifier.Issue(42, "alice@test.com", "Alice")
	require.NoError(t, err)

	app := newGuardedApp(verifier)
	req := httptest.NewRequest("GET", "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPanicRecovered(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandler())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
