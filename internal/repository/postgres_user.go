package repository

import (
	"context"
	"database/sql"

	"taskease/internal/models"
)

type postgresUsers struct {
	db *sql.DB
}

func (s *postgresUsers) Create(ctx context.Context, u *models.User) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return classify(err)
}

func (s *postgresUsers) FindByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

func (s *postgresUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

func (s *postgresUsers) Update(ctx context.Context, u *models.User) error {
	err := s.db.QueryRowContext(ctx,
		`UPDATE users SET name = $1, email = $2, password_hash = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4 RETURNING updated_at`,
		u.Name, u.Email, u.PasswordHash, u.ID,
	).Scan(&u.UpdatedAt)
	return classify(err)
}

func (s *postgresUsers) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}
