package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/kitchenkeeper/internal/common"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/auth"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/repomanager"
	"github.com/jackc/pgx/v5/pgconn"
)

// MinPasswordLength is enforced on registration only; existing accounts
// are never re-validated.
const MinPasswordLength = 6

// uniqueViolation is the PostgreSQL SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

type RegisterInput struct {
	Email    string
	Password string
	Role     models.Role
	Name     string
}

// UserService creates accounts in the credential store.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.Hasher) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher}
}

// Register validates in, hashes the password and stores the user.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	verr := common.NewValidationError()
	if email == "" {
		verr.Add("email", "is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		verr.Add("email", "is not a valid address")
	}
	if len(in.Password) < MinPasswordLength {
		verr.Add("password", "must be at least %d characters", MinPasswordLength)
	}
	if !in.Role.Valid() {
		verr.Add("role", "must be one of %v", models.Roles)
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: hash, Role: in.Role}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = &name
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			verr.Add("email", "is already registered")
			return nil, verr
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}
