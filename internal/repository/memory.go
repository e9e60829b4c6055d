package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskease/internal/models"
)

// memory is a mutex-guarded map-backed store implementing the same contracts
// as the Postgres store, including the cascade rules and the unique-email and
// foreign-key checks. Used by tests and for running without a database.
type memory struct {
	mu         sync.RWMutex
	users      map[int]*models.User
	categories map[int]*models.Category
	tasks      map[int]*models.Task
	notes      map[int]*models.Note
	seq        int
}

// NewMemory builds an empty in-memory store.
func NewMemory() Store {
	m := &memory{
		users:      make(map[int]*models.User),
		categories: make(map[int]*models.Category),
		tasks:      make(map[int]*models.Task),
		notes:      make(map[int]*models.Note),
	}
	return Store{
		Users:      &memUsers{m},
		Categories: &memCategories{m},
		Tasks:      &memTasks{m},
		Notes:      &memNotes{m},
	}
}

func (m *memory) nextID() int {
	m.seq++
	return m.seq
}

// deleteTaskLocked removes a task and its notes.
func (m *memory) deleteTaskLocked(taskID int) {
	for id, n := range m.notes {
		if n.TaskID == taskID {
			delete(m.notes, id)
		}
	}
	delete(m.tasks, taskID)
}

// deleteCategoryLocked removes a category and clears category_id on tasks
// that reference it.
func (m *memory) deleteCategoryLocked(categoryID int) {
	for _, t := range m.tasks {
		if t.CategoryID != nil && *t.CategoryID == categoryID {
			t.CategoryID = nil
		}
	}
	delete(m.categories, categoryID)
}

type memUsers struct{ m *memory }

func (s *memUsers) Create(ctx context.Context, u *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, existing := range s.m.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	now := time.Now()
	u.ID = s.m.nextID()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	s.m.users[u.ID] = &cp
	return nil
}

func (s *memUsers) FindByID(ctx context.Context, id int) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	for _, u := range s.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUsers) Update(ctx context.Context, u *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	existing, ok := s.m.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range s.m.users {
		if id != u.ID && other.Email == u.Email {
			return ErrDuplicate
		}
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now()
	cp := *u
	s.m.users[u.ID] = &cp
	return nil
}

func (s *memUsers) Delete(ctx context.Context, id int) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[id]; !ok {
		return 0, nil
	}
	for cid, c := range s.m.categories {
		if c.UserID == id {
			s.m.deleteCategoryLocked(cid)
		}
	}
	for tid, t := range s.m.tasks {
		if t.UserID == id {
			s.m.deleteTaskLocked(tid)
		}
	}
	delete(s.m.users, id)
	return 1, nil
}

type memCategories struct{ m *memory }

func (s *memCategories) Create(ctx context.Context, c *models.Category) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[c.UserID]; !ok {
		return ErrForeignKey
	}
	now := time.Now()
	c.ID = s.m.nextID()
	c.CreatedAt = now
	c.UpdatedAt = now
	cp := *c
	s.m.categories[c.ID] = &cp
	return nil
}

func (s *memCategories) FindByOwner(ctx context.Context, id, ownerID int) (*models.Category, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	c, ok := s.m.categories[id]
	if !ok || c.UserID != ownerID {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memCategories) ListByOwner(ctx context.Context, ownerID int) ([]models.Category, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	categories := []models.Category{}
	for _, c := range s.m.categories {
		if c.UserID == ownerID {
			categories = append(categories, *c)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].CreatedAt.Before(categories[j].CreatedAt)
	})
	return categories, nil
}

func (s *memCategories) Update(ctx context.Context, c *models.Category) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	existing, ok := s.m.categories[c.ID]
	if !ok || existing.UserID != c.UserID {
		return ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	cp := *c
	s.m.categories[c.ID] = &cp
	return nil
}

func (s *memCategories) Delete(ctx context.Context, id, ownerID int) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c, ok := s.m.categories[id]
	if !ok || c.UserID != ownerID {
		return 0, nil
	}
	s.m.deleteCategoryLocked(id)
	return 1, nil
}

type memTasks struct{ m *memory }

func (s *memTasks) Create(ctx context.Context, t *models.Task) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[t.UserID]; !ok {
		return ErrForeignKey
	}
	if t.CategoryID != nil {
		if _, ok := s.m.categories[*t.CategoryID]; !ok {
			return ErrForeignKey
		}
	}
	now := time.Now()
	t.ID = s.m.nextID()
	t.CreatedAt = now
	t.UpdatedAt = now
	cp := *t
	cp.Category = nil
	s.m.tasks[t.ID] = &cp
	return nil
}

// cloneTaskLocked copies a task with its category resolved, mirroring the
// read-time join of the SQL store.
func (s *memTasks) cloneTaskLocked(t *models.Task) models.Task {
	cp := *t
	if t.CategoryID != nil {
		if c, ok := s.m.categories[*t.CategoryID]; ok {
			cc := *c
			cp.Category = &cc
		}
	}
	return cp
}

func (s *memTasks) FindByOwner(ctx context.Context, id, ownerID int) (*models.Task, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	t, ok := s.m.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, ErrNotFound
	}
	cp := s.cloneTaskLocked(t)
	return &cp, nil
}

func (s *memTasks) List(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	f.Normalize()
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	tasks := []models.Task{}
	for _, t := range s.m.tasks {
		if !matchTask(t, f) {
			continue
		}
		tasks = append(tasks, s.cloneTaskLocked(t))
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		var a, b time.Time
		if f.SortBy == SortByDeadline {
			a, b = tasks[i].Deadline, tasks[j].Deadline
		} else {
			a, b = tasks[i].CreatedAt, tasks[j].CreatedAt
		}
		if f.SortOrder == SortAsc {
			return a.Before(b)
		}
		return b.Before(a)
	})
	return tasks, nil
}

// matchTask evaluates the composed predicate:
// (owner AND status AND title~s) OR (owner AND status AND description~s).
func matchTask(t *models.Task, f TaskFilter) bool {
	base := t.UserID == f.OwnerID
	if f.Status != "" {
		base = base && t.Status == f.Status
	}
	if f.Search == "" {
		return base
	}
	needle := strings.ToLower(f.Search)
	titleArm := base && strings.Contains(strings.ToLower(t.Title), needle)
	descArm := base && strings.Contains(strings.ToLower(t.Description), needle)
	return titleArm || descArm
}

func (s *memTasks) Update(ctx context.Context, t *models.Task) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	existing, ok := s.m.tasks[t.ID]
	if !ok {
		return ErrNotFound
	}
	if t.CategoryID != nil {
		if _, ok := s.m.categories[*t.CategoryID]; !ok {
			return ErrForeignKey
		}
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	cp := *t
	cp.Category = nil
	s.m.tasks[t.ID] = &cp
	return nil
}

func (s *memTasks) Delete(ctx context.Context, id int) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tasks[id]; !ok {
		return 0, nil
	}
	s.m.deleteTaskLocked(id)
	return 1, nil
}

func (s *memTasks) CountByStatus(ctx context.Context, ownerID int, status models.TaskStatus) (int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	n := 0
	for _, t := range s.m.tasks {
		if t.UserID == ownerID && t.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *memTasks) CountNotStatus(ctx context.Context, ownerID int, status models.TaskStatus) (int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	n := 0
	for _, t := range s.m.tasks {
		if t.UserID == ownerID && t.Status != status {
			n++
		}
	}
	return n, nil
}

func (s *memTasks) CountDueBetween(ctx context.Context, ownerID int, from, to time.Time) (int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	n := 0
	for _, t := range s.m.tasks {
		if t.UserID != ownerID || t.Status == models.StatusDone {
			continue
		}
		// Half-open window: from inclusive, to exclusive.
		if !t.Deadline.Before(from) && t.Deadline.Before(to) {
			n++
		}
	}
	return n, nil
}

type memNotes struct{ m *memory }

func (s *memNotes) Create(ctx context.Context, n *models.Note) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tasks[n.TaskID]; !ok {
		return ErrForeignKey
	}
	now := time.Now()
	n.ID = s.m.nextID()
	n.CreatedAt = now
	n.UpdatedAt = now
	cp := *n
	s.m.notes[n.ID] = &cp
	return nil
}

func (s *memNotes) FindByID(ctx context.Context, id int) (*models.Note, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	n, ok := s.m.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *memNotes) ListByTask(ctx context.Context, taskID int) ([]models.Note, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	notes := []models.Note{}
	for _, n := range s.m.notes {
		if n.TaskID == taskID {
			notes = append(notes, *n)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
	return notes, nil
}

func (s *memNotes) Update(ctx context.Context, n *models.Note) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	existing, ok := s.m.notes[n.ID]
	if !ok {
		return ErrNotFound
	}
	n.CreatedAt = existing.CreatedAt
	n.UpdatedAt = time.Now()
	cp := *n
	s.m.notes[n.ID] = &cp
	return nil
}

func (s *memNotes) Delete(ctx context.Context, id int) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.notes[id]; !ok {
		return 0, nil
	}
	delete(s.m.notes, id)
	return 1, nil
}
