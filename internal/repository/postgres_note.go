package repository

import (
	"context"
	"database/sql"

	"taskease/internal/models"
)

type postgresNotes struct {
	db *sql.DB
}

func (s *postgresNotes) Create(ctx context.Context, n *models.Note) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO notes (content, task_id) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		n.Content, n.TaskID,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	return classify(err)
}

func (s *postgresNotes) FindByID(ctx context.Context, id int) (*models.Note, error) {
	var n models.Note
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, task_id, created_at, updated_at FROM notes WHERE id = $1`, id,
	).Scan(&n.ID, &n.Content, &n.TaskID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return &n, nil
}

func (s *postgresNotes) ListByTask(ctx context.Context, taskID int) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, task_id, created_at, updated_at
		 FROM notes WHERE task_id = $1 ORDER BY created_at ASC`, taskID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Content, &n.TaskID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *postgresNotes) Update(ctx context.Context, n *models.Note) error {
	err := s.db.QueryRowContext(ctx,
		`UPDATE notes SET content = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 RETURNING updated_at`,
		n.Content, n.ID,
	).Scan(&n.UpdatedAt)
	return classify(err)
}

func (s *postgresNotes) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}
