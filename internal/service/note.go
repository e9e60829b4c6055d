package service

import (
	"context"

	"go.uber.org/zap"

	"taskease/internal/auth"
	"taskease/internal/models"
	"taskease/internal/repository"
	"taskease/pkg/logger"
)

// NoteService implements note CRUD scoped under a parent task. Access to a
// note is always proven through the parent task's owner.
type NoteService struct {
	notes repository.NoteStore
	owned *Resolver
}

func NewNoteService(store repository.Store, owned *Resolver) *NoteService {
	return &NoteService{notes: store.Notes, owned: owned}
}

func (s *NoteService) Create(ctx context.Context, who auth.Identity, taskID int, content string) (*models.Note, error) {
	if _, err := s.owned.Task(ctx, taskID, who); err != nil {
		return nil, err
	}
	note := &models.Note{Content: content, TaskID: taskID}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	logger.AuditLogger.Info("Note created", zap.Int("note_id", note.ID), zap.Int("task_id", taskID))
	return note, nil
}

func (s *NoteService) ListByTask(ctx context.Context, who auth.Identity, taskID int) ([]models.Note, error) {
	if _, err := s.owned.Task(ctx, taskID, who); err != nil {
		return nil, err
	}
	return s.notes.ListByTask(ctx, taskID)
}

func (s *NoteService) Get(ctx context.Context, who auth.Identity, id int) (*models.Note, error) {
	return s.owned.Note(ctx, id, who)
}

func (s *NoteService) Update(ctx context.Context, who auth.Identity, id int, content string) (*models.Note, error) {
	note, err := s.owned.Note(ctx, id, who)
	if err != nil {
		return nil, err
	}
	note.Content = content
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, who auth.Identity, id int) error {
	if _, err := s.owned.Note(ctx, id, who); err != nil {
		return err
	}
	affected, err := s.notes.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	logger.AuditLogger.Info("Note deleted", zap.Int("note_id", id))
	return nil
}
