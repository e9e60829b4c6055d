package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taskease/internal/models"
)

type postgresTasks struct {
	db *sql.DB
}

const taskColumns = `t.id, t.user_id, t.category_id, t.title, COALESCE(t.description, ''), t.deadline, t.status, t.created_at, t.updated_at,
	c.id, c.name, c.user_id, c.created_at, c.updated_at`

const taskFrom = ` FROM tasks t LEFT JOIN categories c ON c.id = t.category_id`

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	var t models.Task
	var categoryID sql.NullInt64
	var cID sql.NullInt64
	var cName sql.NullString
	var cUserID sql.NullInt64
	var cCreated, cUpdated sql.NullTime

	err := row.Scan(
		&t.ID, &t.UserID, &categoryID, &t.Title, &t.Description, &t.Deadline, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		&cID, &cName, &cUserID, &cCreated, &cUpdated,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := int(categoryID.Int64)
		t.CategoryID = &id
	}
	if cID.Valid {
		t.Category = &models.Category{
			ID:        int(cID.Int64),
			Name:      cName.String,
			UserID:    int(cUserID.Int64),
			CreatedAt: cCreated.Time,
			UpdatedAt: cUpdated.Time,
		}
	}
	return &t, nil
}

func (s *postgresTasks) Create(ctx context.Context, t *models.Task) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO tasks (user_id, category_id, title, description, deadline, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		t.UserID, t.CategoryID, t.Title, t.Description, t.Deadline, t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return classify(err)
}

func (s *postgresTasks) FindByOwner(ctx context.Context, id, ownerID int) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+taskFrom+` WHERE t.id = $1 AND t.user_id = $2`, id, ownerID)
	t, err := scanTask(row)
	if err != nil {
		return nil, classify(err)
	}
	return t, nil
}

// List composes the filter predicate. The owner is always conjoined; with a
// search term the predicate duplicates the base (and status, when set) into
// each OR branch so the status filter binds to both arms.
func (s *postgresTasks) List(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	f.Normalize()

	base := "t.user_id = $1"
	args := []interface{}{f.OwnerID}
	if f.Status != "" {
		args = append(args, f.Status)
		base += fmt.Sprintf(" AND t.status = $%d", len(args))
	}

	where := base
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = fmt.Sprintf("((%s AND t.title ILIKE $%d) OR (%s AND t.description ILIKE $%d))", base, n, base, n)
	}

	orderCol := "t.created_at"
	if f.SortBy == SortByDeadline {
		orderCol = "t.deadline"
	}

	query := `SELECT ` + taskColumns + taskFrom + ` WHERE ` + where +
		fmt.Sprintf(` ORDER BY %s %s`, orderCol, f.SortOrder)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *postgresTasks) Update(ctx context.Context, t *models.Task) error {
	err := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET title = $1, description = $2, deadline = $3, status = $4, category_id = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6 RETURNING updated_at`,
		t.Title, t.Description, t.Deadline, t.Status, t.CategoryID, t.ID,
	).Scan(&t.UpdatedAt)
	return classify(err)
}

func (s *postgresTasks) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}

func (s *postgresTasks) CountByStatus(ctx context.Context, ownerID int, status models.TaskStatus) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND status = $2`, ownerID, status,
	).Scan(&n)
	return n, classify(err)
}

func (s *postgresTasks) CountNotStatus(ctx context.Context, ownerID int, status models.TaskStatus) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND status <> $2`, ownerID, status,
	).Scan(&n)
	return n, classify(err)
}

func (s *postgresTasks) CountDueBetween(ctx context.Context, ownerID int, from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks
		 WHERE user_id = $1 AND status <> $2 AND deadline >= $3 AND deadline < $4`,
		ownerID, models.StatusDone, from, to,
	).Scan(&n)
	return n, classify(err)
}
