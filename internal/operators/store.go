// Package operators looks up privileged-operator membership in the backing
// Postgres database.
package operators

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Store answers membership checks against the privileged_operators table.
// Each check is a fresh query; there is no caching.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres using the given connection string.
func Open(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open operator store: %w", err)
	}

	// Membership checks are small and infrequent; keep the pool tiny.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	return &Store{db: db}, nil
}

// NewStore wraps an existing connection. Used by tests.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// IsOperator reports whether subject appears in the privileged-operator set.
func (s *Store) IsOperator(ctx context.Context, subject string) (bool, error) {
	var isOperator bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM privileged_operators WHERE subject = $1)",
		subject,
	).Scan(&isOperator)
	if err != nil {
		return false, fmt.Errorf("query privileged operators: %w", err)
	}
	return isOperator, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
