package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gocomet/ride-booking/internal/domain/user"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserStore persists users in PostgreSQL.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a PostgreSQL-backed user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create implements user.Store
func (s *UserStore) Create(ctx context.Context, u *user.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Username, u.PasswordHash, string(u.Role), u.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return user.ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID implements user.Store
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.getBy(ctx, "id = $1", id)
}

// GetByUsername implements user.Store
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return s.getBy(ctx, "LOWER(username) = LOWER($1)", username)
}

func (s *UserStore) getBy(ctx context.Context, cond string, arg interface{}) (*user.User, error) {
	var u user.User
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE `+cond, arg,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	u.Role = user.Role(role)
	return &u, nil
}
