package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"taskease/internal/auth"
	"taskease/internal/models"
	"taskease/internal/repository"
	ws "taskease/internal/websocket"
	"taskease/pkg/logger"
)

const nearDeadlineWindow = 7 * 24 * time.Hour

const taskCacheTTL = time.Hour

// TaskService implements task CRUD, filtered listing, and the summary counts.
// Every single-resource operation resolves ownership before touching the row.
type TaskService struct {
	tasks repository.TaskStore
	owned *Resolver
	cache *redis.Client // optional; nil disables caching
	hub   *ws.Hub       // optional; nil disables events
}

func NewTaskService(store repository.Store, owned *Resolver, cache *redis.Client, hub *ws.Hub) *TaskService {
	return &TaskService{tasks: store.Tasks, owned: owned, cache: cache, hub: hub}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Deadline    string
	Status      models.TaskStatus
	CategoryID  *int
}

// parseDeadline accepts an ISO 8601 timestamp.
func parseDeadline(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, validationf("Invalid deadline date format. Please use ISO 8601 format.")
	}
	return t, nil
}

// resolveCategory proves the category exists and belongs to the caller.
// Attaching another user's category is rejected outright rather than left to
// the foreign-key constraint.
func (s *TaskService) resolveCategory(ctx context.Context, id int, who auth.Identity) (*models.Category, error) {
	cat, err := s.owned.Category(ctx, id, who)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, validationf(fmt.Sprintf("Category with ID %d does not exist.", id))
		}
		return nil, err
	}
	return cat, nil
}

func (s *TaskService) Create(ctx context.Context, who auth.Identity, in CreateTaskInput) (*models.Task, error) {
	deadline, err := parseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.StatusToDo
	}
	if !status.Valid() {
		return nil, validationf("Status must be one of: ToDo, InProgress, Done")
	}

	task := &models.Task{
		UserID:      who.SubjectID,
		Title:       in.Title,
		Description: in.Description,
		Deadline:    deadline,
		Status:      status,
	}
	if in.CategoryID != nil {
		cat, err := s.resolveCategory(ctx, *in.CategoryID, who)
		if err != nil {
			return nil, err
		}
		task.CategoryID = in.CategoryID
		task.Category = cat
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, validationf("Task references a row that does not exist.")
		}
		return nil, err
	}

	logger.AuditLogger.Info("Task created", zap.Int("task_id", task.ID), zap.Int("user_id", who.SubjectID))
	s.hub.Publish(ws.Event{Type: ws.EventTaskCreated, TaskID: task.ID, OwnerID: who.SubjectID})
	return task, nil
}

type ListTasksInput struct {
	Status    string
	Search    string
	SortBy    string
	SortOrder string
}

func (s *TaskService) List(ctx context.Context, who auth.Identity, in ListTasksInput) ([]models.Task, error) {
	return s.tasks.List(ctx, repository.TaskFilter{
		OwnerID:   who.SubjectID,
		Status:    models.TaskStatus(in.Status),
		Search:    in.Search,
		SortBy:    in.SortBy,
		SortOrder: in.SortOrder,
	})
}

func (s *TaskService) cacheKey(id int) string {
	return fmt.Sprintf("task:%d", id)
}

func (s *TaskService) Get(ctx context.Context, who auth.Identity, id int) (*models.Task, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, s.cacheKey(id)).Result(); err == nil {
			var task models.Task
			if err := json.Unmarshal([]byte(cached), &task); err == nil {
				// Same outcome as the store's owner predicate: a cache hit
				// for someone else's task is indistinguishable from a miss.
				if task.UserID != who.SubjectID {
					return nil, ErrNotFound
				}
				return &task, nil
			}
		}
	}

	task, err := s.owned.Task(ctx, id, who)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, task)
	return task, nil
}

func (s *TaskService) cacheSet(ctx context.Context, task *models.Task) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return
	}
	if err := s.cache.SetEX(ctx, s.cacheKey(task.ID), payload, taskCacheTTL).Err(); err != nil {
		logger.ErrorLogger.Error("Error caching task", zap.Error(err))
	}
}

func (s *TaskService) cacheDel(ctx context.Context, id int) {
	if s.cache == nil {
		return
	}
	s.cache.Del(ctx, s.cacheKey(id))
}

// UpdateTaskInput fields are optional; nil means unchanged. A CategoryID of 0
// clears the category.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Deadline    *string
	Status      *models.TaskStatus
	CategoryID  *int
}

func (s *TaskService) Update(ctx context.Context, who auth.Identity, id int, in UpdateTaskInput) (*models.Task, error) {
	task, err := s.owned.Task(ctx, id, who)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Deadline != nil {
		deadline, err := parseDeadline(*in.Deadline)
		if err != nil {
			return nil, err
		}
		task.Deadline = deadline
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, validationf("Status must be one of: ToDo, InProgress, Done")
		}
		task.Status = *in.Status
	}
	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			task.CategoryID = nil
			task.Category = nil
		} else {
			cat, err := s.resolveCategory(ctx, *in.CategoryID, who)
			if err != nil {
				return nil, err
			}
			task.CategoryID = in.CategoryID
			task.Category = cat
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, validationf("Task references a row that does not exist.")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.cacheDel(ctx, task.ID)
	s.cacheSet(ctx, task)
	logger.AuditLogger.Info("Task updated", zap.Int("task_id", task.ID), zap.Int("user_id", who.SubjectID))
	s.hub.Publish(ws.Event{Type: ws.EventTaskUpdated, TaskID: task.ID, OwnerID: who.SubjectID})
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, who auth.Identity, id int) error {
	if _, err := s.owned.Task(ctx, id, who); err != nil {
		return err
	}
	affected, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.cacheDel(ctx, id)
	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", id), zap.Int("user_id", who.SubjectID))
	s.hub.Publish(ws.Event{Type: ws.EventTaskDeleted, TaskID: id, OwnerID: who.SubjectID})
	return nil
}

// Summary holds the aggregate task counts for one user.
type Summary struct {
	Completed    int `json:"completed"`
	Pending      int `json:"pending"`
	NearDeadline int `json:"nearDeadline"`
}

// Summarize computes the three counts independently; they are not guaranteed
// mutually consistent under concurrent writers. The near-deadline window is
// [now, now+7d), evaluated at the supplied instant.
func (s *TaskService) Summarize(ctx context.Context, who auth.Identity, now time.Time) (Summary, error) {
	completed, err := s.tasks.CountByStatus(ctx, who.SubjectID, models.StatusDone)
	if err != nil {
		return Summary{}, err
	}
	pending, err := s.tasks.CountNotStatus(ctx, who.SubjectID, models.StatusDone)
	if err != nil {
		return Summary{}, err
	}
	near, err := s.tasks.CountDueBetween(ctx, who.SubjectID, now, now.Add(nearDeadlineWindow))
	if err != nil {
		return Summary{}, err
	}
	return Summary{Completed: completed, Pending: pending, NearDeadline: near}, nil
}
