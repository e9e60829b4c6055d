// Package repository is the storage collaborator: narrow per-entity stores
// over a shared persistent database. Single-row operations are atomic; there
// are no cross-row transactions.
package repository

import (
	"context"
	"errors"
	"time"

	"taskease/internal/models"
)

var (
	// ErrNotFound is returned when a row does not exist. Owner-scoped lookups
	// return it for non-owned rows as well, so callers cannot distinguish the
	// two cases.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is a unique-constraint violation (email).
	ErrDuplicate = errors.New("duplicate value")
	// ErrForeignKey is a foreign-key violation (absent referenced row).
	ErrForeignKey = errors.New("foreign key violation")
)

const (
	SortByCreatedAt = "createdAt"
	SortByDeadline  = "deadline"

	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// TaskFilter describes the criteria for listing a user's tasks. The owner
// predicate is always applied; status and search are optional. With both a
// status and a search term the predicate is
//
//	(owner AND status AND title~search) OR (owner AND status AND description~search)
//
// with the status conjoined inside each OR branch. Search matching is a
// case-insensitive substring match.
type TaskFilter struct {
	OwnerID   int
	Status    models.TaskStatus
	Search    string
	SortBy    string
	SortOrder string
}

// Normalize applies the sort defaults; unrecognized values fall back to
// createdAt/DESC.
func (f *TaskFilter) Normalize() {
	if f.SortBy != SortByCreatedAt && f.SortBy != SortByDeadline {
		f.SortBy = SortByCreatedAt
	}
	if f.SortOrder != SortAsc && f.SortOrder != SortDesc {
		f.SortOrder = SortDesc
	}
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int) (int64, error)
}

type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	// FindByOwner fetches by id and owner in a single predicate.
	FindByOwner(ctx context.Context, id, ownerID int) (*models.Category, error)
	ListByOwner(ctx context.Context, ownerID int) ([]models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id, ownerID int) (int64, error)
}

type TaskStore interface {
	Create(ctx context.Context, t *models.Task) error
	// FindByOwner fetches by id and owner in a single predicate, with the
	// category resolved in the same query.
	FindByOwner(ctx context.Context, id, ownerID int) (*models.Task, error)
	List(ctx context.Context, f TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, id int) (int64, error)
	CountByStatus(ctx context.Context, ownerID int, status models.TaskStatus) (int, error)
	CountNotStatus(ctx context.Context, ownerID int, status models.TaskStatus) (int, error)
	// CountDueBetween counts unfinished tasks with deadline in [from, to).
	CountDueBetween(ctx context.Context, ownerID int, from, to time.Time) (int, error)
}

type NoteStore interface {
	Create(ctx context.Context, n *models.Note) error
	FindByID(ctx context.Context, id int) (*models.Note, error)
	ListByTask(ctx context.Context, taskID int) ([]models.Note, error)
	Update(ctx context.Context, n *models.Note) error
	Delete(ctx context.Context, id int) (int64, error)
}

// Store bundles the per-entity stores behind one value for wiring.
type Store struct {
	Users      UserStore
	Categories CategoryStore
	Tasks      TaskStore
	Notes      NoteStore
}
