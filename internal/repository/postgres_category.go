package repository

import (
	"context"
	"database/sql"

	"taskease/internal/models"
)

type postgresCategories struct {
	db *sql.DB
}

func (s *postgresCategories) Create(ctx context.Context, c *models.Category) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, user_id) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.UserID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return classify(err)
}

func (s *postgresCategories) FindByOwner(ctx context.Context, id, ownerID int) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, user_id, created_at, updated_at
		 FROM categories WHERE id = $1 AND user_id = $2`, id, ownerID,
	).Scan(&c.ID, &c.Name, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

func (s *postgresCategories) ListByOwner(ctx context.Context, ownerID int) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, user_id, created_at, updated_at
		 FROM categories WHERE user_id = $1 ORDER BY created_at ASC`, ownerID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *postgresCategories) Update(ctx context.Context, c *models.Category) error {
	err := s.db.QueryRowContext(ctx,
		`UPDATE categories SET name = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND user_id = $3 RETURNING updated_at`,
		c.Name, c.ID, c.UserID,
	).Scan(&c.UpdatedAt)
	return classify(err)
}

func (s *postgresCategories) Delete(ctx context.Context, id, ownerID int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}
