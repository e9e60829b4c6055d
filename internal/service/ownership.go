package service

import (
	"context"
	"errors"

	"taskease/internal/auth"
	"taskease/internal/models"
	"taskease/internal/repository"
)

// Resolver loads a resource only when the given identity owns it, directly
// (tasks, categories) or through the parent task (notes). Every mutation path
// in the services goes through a Resolver lookup first.
//
// One policy for all three types: a resource that does not exist and one
// owned by someone else both come back as ErrNotFound, so a caller can never
// probe for another user's resource ids.
type Resolver struct {
	tasks      repository.TaskStore
	categories repository.CategoryStore
	notes      repository.NoteStore
}

func NewResolver(store repository.Store) *Resolver {
	return &Resolver{
		tasks:      store.Tasks,
		categories: store.Categories,
		notes:      store.Notes,
	}
}

// Task fetches a task by id and owner in a single store predicate.
func (r *Resolver) Task(ctx context.Context, id int, who auth.Identity) (*models.Task, error) {
	t, err := r.tasks.FindByOwner(ctx, id, who.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// Category fetches a category by id and owner in a single store predicate.
func (r *Resolver) Category(ctx context.Context, id int, who auth.Identity) (*models.Category, error) {
	c, err := r.categories.FindByOwner(ctx, id, who.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Note fetches a note by id, then proves ownership with one hop through the
// parent task. Note rows carry no owner column; the parent's owner is
// authoritative and never stored redundantly.
func (r *Resolver) Note(ctx context.Context, id int, who auth.Identity) (*models.Note, error) {
	n, err := r.notes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := r.Task(ctx, n.TaskID, who); err != nil {
		return nil, err
	}
	return n, nil
}
