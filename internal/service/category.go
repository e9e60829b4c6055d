package service

import (
	"context"

	"go.uber.org/zap"

	"taskease/internal/auth"
	"taskease/internal/models"
	"taskease/internal/repository"
	"taskease/pkg/logger"
)

// CategoryService implements owner-scoped category CRUD. Deleting a category
// never deletes its tasks; the store clears category_id on each of them.
type CategoryService struct {
	categories repository.CategoryStore
	owned      *Resolver
}

func NewCategoryService(store repository.Store, owned *Resolver) *CategoryService {
	return &CategoryService{categories: store.Categories, owned: owned}
}

func (s *CategoryService) Create(ctx context.Context, who auth.Identity, name string) (*models.Category, error) {
	category := &models.Category{Name: name, UserID: who.SubjectID}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	logger.AuditLogger.Info("Category created", zap.Int("category_id", category.ID), zap.Int("user_id", who.SubjectID))
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, who auth.Identity) ([]models.Category, error) {
	return s.categories.ListByOwner(ctx, who.SubjectID)
}

func (s *CategoryService) Get(ctx context.Context, who auth.Identity, id int) (*models.Category, error) {
	return s.owned.Category(ctx, id, who)
}

func (s *CategoryService) Update(ctx context.Context, who auth.Identity, id int, name string) (*models.Category, error) {
	category, err := s.owned.Category(ctx, id, who)
	if err != nil {
		return nil, err
	}
	category.Name = name
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, who auth.Identity, id int) error {
	if _, err := s.owned.Category(ctx, id, who); err != nil {
		return err
	}
	affected, err := s.categories.Delete(ctx, id, who.SubjectID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	logger.AuditLogger.Info("Category deleted", zap.Int("category_id", id), zap.Int("user_id", who.SubjectID))
	return nil
}
