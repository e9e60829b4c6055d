package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// NewPostgres wires all entity stores onto one database handle.
func NewPostgres(db *sql.DB) Store {
	return Store{
		Users:      &postgresUsers{db: db},
		Categories: &postgresCategories{db: db},
		Tasks:      &postgresTasks{db: db},
		Notes:      &postgresNotes{db: db},
	}
}

// classify maps driver-level failures onto the repository error taxonomy.
// Anything unrecognized propagates as an opaque storage error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrForeignKey
		}
	}
	return err
}
