package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskease/internal/models"
)

func seedUser(t *testing.T, store Store, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "user", Email: email, PasswordHash: "x"}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func seedTask(t *testing.T, store Store, ownerID int, title string, status models.TaskStatus, deadline time.Time) *models.Task {
	t.Helper()
	task := &models.Task{UserID: ownerID, Title: title, Deadline: deadline, Status: status}
	require.NoError(t, store.Tasks.Create(context.Background(), task))
	return task
}

func TestMemoryDuplicateEmail(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	seedUser(t, store, "dup@test.com")
	err := store.Users.Create(ctx, &models.User{Name: "other", Email: "dup@test.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryTaskForeignKeys(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	u := seedUser(t, store, "fk@test.com")

	missing := 9999
	err := store.Tasks.Create(ctx, &models.Task{
		UserID: u.ID, Title: "t", Deadline: time.Now(), Status: models.StatusToDo, CategoryID: &missing,
	})
	assert.ErrorIs(t, err, ErrForeignKey)

	err = store.Tasks.Create(ctx, &models.Task{
		UserID: 9999, Title: "t", Deadline: time.Now(), Status: models.StatusToDo,
	})
	assert.ErrorIs(t, err, ErrForeignKey)
}

func TestMemoryCascades(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	u := seedUser(t, store, "cascade@test.com")

	cat := &models.Category{Name: "Work", UserID: u.ID}
	require.NoError(t, store.Categories.Create(ctx, cat))

	task := &models.Task{UserID: u.ID, Title: "t", Deadline: time.Now(), Status: models.StatusToDo, CategoryID: &cat.ID}
	require.NoError(t, store.Tasks.Create(ctx, task))

	note := &models.Note{Content: "n", TaskID: task.ID}
	require.NoError(t, store.Notes.Create(ctx, note))

	// Category delete clears category_id on the task but keeps the task.
	affected, err := store.Categories.Delete(ctx, cat.ID, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	got, err := store.Tasks.FindByOwner(ctx, task.ID, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	// Task delete removes its notes.
	_, err = store.Tasks.Delete(ctx, task.ID)
	require.NoError(t, err)
	_, err = store.Notes.FindByID(ctx, note.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserDeleteCascades(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	u := seedUser(t, store, "owner@test.com")

	cat := &models.Category{Name: "Home", UserID: u.ID}
	require.NoError(t, store.Categories.Create(ctx, cat))
	task := seedTask(t, store, u.ID, "t", models.StatusToDo, time.Now())
	note := &models.Note{Content: "n", TaskID: task.ID}
	require.NoError(t, store.Notes.Create(ctx, note))

	_, err := store.Users.Delete(ctx, u.ID)
	require.NoError(t, err)

	_, err = store.Categories.FindByOwner(ctx, cat.ID, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Tasks.FindByOwner(ctx, task.ID, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Notes.FindByID(ctx, note.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListFilter(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	u := seedUser(t, store, "filter@test.com")
	other := seedUser(t, store, "other@test.com")

	seedTask(t, store, u.ID, "Write report", models.StatusToDo, time.Now())
	done := &models.Task{UserID: u.ID, Title: "Ship release", Description: "write changelog", Deadline: time.Now(), Status: models.StatusDone}
	require.NoError(t, store.Tasks.Create(ctx, done))
	seedTask(t, store, other.ID, "Write other report", models.StatusToDo, time.Now())

	// Owner predicate is always applied.
	all, err := store.Tasks.List(ctx, TaskFilter{OwnerID: u.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Case-insensitive substring over title OR description.
	found, err := store.Tasks.List(ctx, TaskFilter{OwnerID: u.ID, Search: "WRITE"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	// Status conjoined with each search arm: "write" matches the Done task's
	// description, but the status filter still excludes the ToDo one.
	found, err = store.Tasks.List(ctx, TaskFilter{OwnerID: u.ID, Search: "write", Status: models.StatusDone})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ship release", found[0].Title)

	found, err = store.Tasks.List(ctx, TaskFilter{OwnerID: u.ID, Search: "nomatch"})
	require.NoError(t, err)
	assert.Len(t, found, 0)
}

func TestMemoryListSorting(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	u := seedUser(t, store, "sort@test.com")

	now := time.Now()
	seedTask(t, store, u.ID, "later", models.StatusToDo, now.Add(48*time.Hour))
	seedTask(t, store, u.ID, "sooner", models.StatusToDo, now.Add(24*time.Hour))

	byDeadline, err := store.Tasks.List(ctx, TaskFilter{OwnerID: u.ID, SortBy: SortByDeadline, SortOrder: SortAsc})
	require.NoError(t, err)
	require.Len(t, byDeadline, 2)
	assert.Equal(t, "sooner", byDeadline[0].Title)

	// Unrecognized sort inputs fall back to createdAt/DESC.
	fallback, err := store.Tasks.List(ctx, TaskFilter{OwnerID: u.ID, SortBy: "bogus", SortOrder: "sideways"})
	require.NoError(t, err)
	require.Len(t, fallback, 2)
	assert.Equal(t, "sooner", fallback[0].Title)
}

func TestMemoryCountDueBetweenHalfOpen(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	u := seedUser(t, store, "counts@test.com")

	now := time.Now().Truncate(time.Second)
	week := now.Add(7 * 24 * time.Hour)

	seedTask(t, store, u.ID, "at now", models.StatusToDo, now)                       // included
	seedTask(t, store, u.ID, "mid window", models.StatusInProgress, now.Add(72*time.Hour)) // included
	seedTask(t, store, u.ID, "at boundary", models.StatusToDo, week)                 // excluded: exactly now+7d
	seedTask(t, store, u.ID, "done soon", models.StatusDone, now.Add(24*time.Hour))  // excluded: finished

	n, err := store.Tasks.CountDueBetween(ctx, u.ID, now, week)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	completed, err := store.Tasks.CountByStatus(ctx, u.ID, models.StatusDone)
	require.NoError(t, err)
	pending, err := store.Tasks.CountNotStatus(ctx, u.ID, models.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 3, pending)
	assert.Equal(t, 4, completed+pending)
}

func TestMemoryDeleteIdempotence(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	u := seedUser(t, store, "idem@test.com")
	task := seedTask(t, store, u.ID, "t", models.StatusToDo, time.Now())

	affected, err := store.Tasks.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = store.Tasks.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}
