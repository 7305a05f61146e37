package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gocomet/ride-booking/internal/domain/user"
	apperrors "github.com/gocomet/ride-booking/pkg/errors"
	"github.com/gocomet/ride-booking/pkg/logger"
	"github.com/gocomet/ride-booking/pkg/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service registers accounts and issues tokens. It is plumbing around the
// engines: the lifecycle and query services trust the (callerID, role) pair
// the API layer extracts from a verified token.
type Service struct {
	users  user.Store
	tokens *token.Manager
	logger *logger.Logger
}

// NewService creates an auth service
func NewService(users user.Store, tokens *token.Manager, logger *logger.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Result carries an issued token and the account it belongs to.
type Result struct {
	Token    string
	Username string
	Role     user.Role
	UserID   uuid.UUID
}

// Register creates an account with the USER or DRIVER role and returns a
// token for it.
func (s *Service) Register(ctx context.Context, username, password string, role user.Role) (*Result, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.Validation("Username is required", nil)
	}
	if password == "" {
		return nil, apperrors.Validation("Password is required", nil)
	}
	if !role.IsValid() {
		return nil, apperrors.Validation("Role must be either USER or DRIVER", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return nil, apperrors.Validation("Username already exists", err)
		}
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.logger.Info("User registered",
		logger.String("user_id", u.ID.String()),
		logger.String("role", string(u.Role)),
	)
	return s.issue(u)
}

// Login verifies credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, username, password string) (*Result, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NotFound("User not found", err)
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Authorization("Invalid credentials", nil)
	}

	return s.issue(u)
}

func (s *Service) issue(u *user.User) (*Result, error) {
	t, err := s.tokens.Generate(u.ID, u.Username, string(u.Role))
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}
	return &Result{
		Token:    t,
		Username: u.Username,
		Role:     u.Role,
		UserID:   u.ID,
	}, nil
}
