package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskease/internal/api/v1/handlers"
	"taskease/internal/auth"
	"taskease/internal/middleware"
	"taskease/internal/repository"
	"taskease/internal/service"
	"taskease/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitTestLoggers()
	os.Exit(m.Run())
}

func newTestApp() *fiber.App {
	store := repository.NewMemory()
	verifier := auth.NewVerifier([]byte("test-secret"), time.Hour)
	owned := service.NewResolver(store)
	h := handlers.New(
		service.NewAuthService(store.Users, verifier),
		service.NewUserService(store.Users),
		service.NewTaskService(store, owned, nil, nil),
		service.NewCategoryService(store, owned),
		service.NewNoteService(store, owned),
	)

	app := fiber.New()
	app.Use(middleware.ErrorHandler())
	app.Use(middleware.Guard(verifier))
	RegisterRoutes(app, h)
	return app
}

type envelope struct {
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	return resp.StatusCode, env
}

func registerUser(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	code, env := doJSON(t, app, "POST", "/api/v1/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func isoDeadline(d time.Duration) string {
	return time.Now().Add(d).UTC().Format(time.RFC3339)
}

func TestRegisterLoginFlow(t *testing.T) {
	app := newTestApp()

	token := registerUser(t, app, "Alice", "alice@test.com")
	require.NotEmpty(t, token)

	// Duplicate email
	code, _ := doJSON(t, app, "POST", "/api/v1/auth/register", "", fiber.Map{
		"name": "Alice 2", "email": "alice@test.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, code)

	// Login, then use the fresh token against a protected route
	code, env := doJSON(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{
		"email": "alice@test.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	code, env = doJSON(t, app, "GET", "/api/v1/users/me", data.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var user struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "alice@test.com", user.Email)

	// Wrong password
	code, _ = doJSON(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{
		"email": "alice@test.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp()

	for _, route := range []struct{ method, path string }{
		{"GET", "/api/v1/tasks"},
		{"POST", "/api/v1/tasks"},
		{"GET", "/api/v1/tasks/summary"},
		{"GET", "/api/v1/categories"},
		{"GET", "/api/v1/users/me"},
	} {
		code, _ := doJSON(t, app, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, "%s %s", route.method, route.path)
	}
}

func TestTaskCRUD(t *testing.T) {
	app := newTestApp()
	token := registerUser(t, app, "Alice", "alice@test.com")

	code, env := doJSON(t, app, "POST", "/api/v1/tasks", token, fiber.Map{
		"title":       "Submit report",
		"description": "Quarterly numbers",
		"deadline":    "2026-10-01T17:00:00Z",
	})
	require.Equal(t, http.StatusCreated, code)
	var task struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, "ToDo", task.Status)

	code, env = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/tasks/%d", task.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/tasks/%d", task.ID), token, fiber.Map{
		"status": "Done",
	})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, "Done", task.Status)

	code, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/tasks/%d", task.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/tasks/%d", task.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/tasks/%d", task.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTaskValidation(t *testing.T) {
	app := newTestApp()
	token := registerUser(t, app, "Alice", "alice@test.com")

	// Missing title
	code, _ := doJSON(t, app, "POST", "/api/v1/tasks", token, fiber.Map{
		"deadline": isoDeadline(time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// Bad deadline
	code, _ = doJSON(t, app, "POST", "/api/v1/tasks", token, fiber.Map{
		"title": "t", "deadline": "tomorrow",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// Unknown status
	code, _ = doJSON(t, app, "POST", "/api/v1/tasks", token, fiber.Map{
		"title": "t", "deadline": isoDeadline(time.Hour), "status": "Later",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// Non-existent category
	code, _ = doJSON(t, app, "POST", "/api/v1/tasks", token, fiber.Map{
		"title": "t", "deadline": isoDeadline(time.Hour), "category_id": 9999,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// None of the rejected tasks persisted
	code, env := doJSON(t, app, "GET", "/api/v1/tasks", token, nil)
	require.Equal(t, http.StatusOK, code)
	var tasks []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	assert.Empty(t, tasks)
}

func TestCrossUserIsolation(t *testing.T) {
	app := newTestApp()
	alice := registerUser(t, app, "Alice", "alice@test.com")
	bob := registerUser(t, app, "Bob", "bob@test.com")

	code, env := doJSON(t, app, "POST", "/api/v1/tasks", alice, fiber.Map{
		"title": "Alice's task", "deadline": isoDeadline(time.Hour),
	})
	require.Equal(t, http.StatusCreated, code)
	var task struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &task))

	code, env = doJSON(t, app, "POST", "/api/v1/categories", alice, fiber.Map{"name": "Work"})
	require.Equal(t, http.StatusCreated, code)
	var cat struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cat))

	// Bob sees none of it: 404, never 403.
	code, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/tasks/%d", task.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/categories/%d", cat.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/tasks/%d", task.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, code)

	// Bob cannot hang a note under Alice's task
	code, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/tasks/%d/notes", task.ID), bob, fiber.Map{
		"content": "drive-by note",
	})
	assert.Equal(t, http.StatusNotFound, code)

	// Bob cannot attach Alice's category to his task
	code, _ = doJSON(t, app, "POST", "/api/v1/tasks", bob, fiber.Map{
		"title": "Bob's task", "deadline": isoDeadline(time.Hour), "category_id": cat.ID,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// Bob's list is empty, Alice's is not
	code, env = doJSON(t, app, "GET", "/api/v1/tasks", bob, nil)
	require.Equal(t, http.StatusOK, code)
	var tasks []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	assert.Empty(t, tasks)

	code, env = doJSON(t, app, "GET", "/api/v1/tasks", alice, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	assert.Len(t, tasks, 1)
}

func TestTaskListFilters(t *testing.T) {
	app := newTestApp()
	token := registerUser(t, app, "Alice", "alice@test.com")

	mk := func(title, desc, status string) {
		t.Helper()
		code, _ := doJSON(t, app, "POST", "/api/v1/tasks", token, fiber.Map{
			"title": title, "description": desc, "status": status, "deadline": isoDeadline(time.Hour),
		})
		require.Equal(t, http.StatusCreated, code)
	}
	mk("Write report", "about groceries", "ToDo")
	mk("Buy groceries", "milk and eggs", "Done")
	mk("Call dentist", "reschedule", "ToDo")

	titles := func(path string) []string {
		t.Helper()
		code, env := doJSON(t, app, "GET", path, token, nil)
		require.Equal(t, http.StatusOK, code)
		var tasks []struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &tasks))
		out := make([]string, len(tasks))
		for i, task := range tasks {
			out[i] = task.Title
		}
		return out
	}

	// Search matches title or description, case-insensitive
	assert.ElementsMatch(t, []string{"Write report", "Buy groceries"}, titles("/api/v1/tasks?search=GROCERIES"))

	// Status conjoined with search
	assert.ElementsMatch(t, []string{"Buy groceries"}, titles("/api/v1/tasks?search=groceries&status=Done"))

	// Status alone
	assert.ElementsMatch(t, []string{"Write report", "Call dentist"}, titles("/api/v1/tasks?status=ToDo"))
}

func TestTaskSummaryEndpoint(t *testing.T) {
	app := newTestApp()
	token := registerUser(t, app, "Alice", "alice@test.com")

	code, _ := doJSON(t, app, "POST", "/api/v1/tasks", token, fiber.Map{
		"title": "soon", "deadline": isoDeadline(48 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, code)
	code, _ = doJSON(t, app, "POST", "/api/v1/tasks", token, fiber.Map{
		"title": "far", "deadline": isoDeadline(30 * 24 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, code)
	code, _ = doJSON(t, app, "POST", "/api/v1/tasks", token, fiber.Map{
		"title": "done", "deadline": isoDeadline(time.Hour), "status": "Done",
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := doJSON(t, app, "GET", "/api/v1/tasks/summary", token, nil)
	require.Equal(t, http.StatusOK, code)

	var sum struct {
		Completed    int `json:"completed"`
		Pending      int `json:"pending"`
		NearDeadline int `json:"nearDeadline"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, 1, sum.Completed)
	assert.Equal(t, 2, sum.Pending)
	assert.Equal(t, 1, sum.NearDeadline)
}

func TestNoteLifecycle(t *testing.T) {
	app := newTestApp()
	token := registerUser(t, app, "Alice", "alice@test.com")

	code, env := doJSON(t, app, "POST", "/api/v1/tasks", token, fiber.Map{
		"title": "t", "deadline": isoDeadline(time.Hour),
	})
	require.Equal(t, http.StatusCreated, code)
	var task struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &task))

	code, env = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/tasks/%d/notes", task.ID), token, fiber.Map{
		"content": "first draft",
	})
	require.Equal(t, http.StatusCreated, code)
	var note struct {
		ID      int    `json:"id"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &note))
	assert.Equal(t, "first draft", note.Content)

	code, env = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/notes/%d", note.ID), token, fiber.Map{
		"content": "second draft",
	})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &note))
	assert.Equal(t, "second draft", note.Content)

	code, env = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/tasks/%d/notes", task.ID), token, nil)
	require.Equal(t, http.StatusOK, code)
	var notes []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &notes))
	assert.Len(t, notes, 1)

	// Deleting the task cascades to its notes
	code, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/tasks/%d", task.ID), token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/notes/%d", note.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCategoryAttachAndClear(t *testing.T) {
	app := newTestApp()
	token := registerUser(t, app, "Alice", "alice@test.com")

	code, env := doJSON(t, app, "POST", "/api/v1/categories", token, fiber.Map{"name": "Work"})
	require.Equal(t, http.StatusCreated, code)
	var cat struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cat))

	code, env = doJSON(t, app, "POST", "/api/v1/tasks", token, fiber.Map{
		"title": "t", "deadline": isoDeadline(time.Hour), "category_id": cat.ID,
	})
	require.Equal(t, http.StatusCreated, code)
	var task struct {
		ID         int  `json:"id"`
		CategoryID *int `json:"category_id"`
		Category   *struct {
			Name string `json:"name"`
		} `json:"category"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &task))
	require.NotNil(t, task.CategoryID)
	require.NotNil(t, task.Category)
	assert.Equal(t, "Work", task.Category.Name)

	// Deleting the category detaches the task and keeps it alive
	code, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/categories/%d", cat.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/tasks/%d", task.ID), token, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Nil(t, task.CategoryID)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	app := newTestApp()
	token := registerUser(t, app, "Alice", "alice@test.com")
	registerUser(t, app, "Bob", "bob@test.com")

	code, env := doJSON(t, app, "PUT", "/api/v1/users/me", token, fiber.Map{"name": "Alice B."})
	require.Equal(t, http.StatusOK, code)
	var user struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "Alice B.", user.Name)

	code, _ = doJSON(t, app, "PUT", "/api/v1/users/me", token, fiber.Map{"email": "bob@test.com"})
	assert.Equal(t, http.StatusConflict, code)
}
