// Package services contains server-side business logic. SessionService
// verifies credentials and issues stateless session tokens; the other
// services cover user registration, stock movements and delivery
// confirmations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/kitchenkeeper/internal/common"
	"github.com/dmitrijs2005/kitchenkeeper/internal/logging"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/auth"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/repomanager"
)

// Credentials is a login attempt. Username is accepted as an alias for
// Email.
type Credentials struct {
	Email    string
	Username string
	Password string
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      models.SafeUser
}

type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	signer      *auth.TokenSigner
	hasher      *auth.Hasher
	logger      logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, signer *auth.TokenSigner, hasher *auth.Hasher, logger logging.Logger) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		signer:      signer,
		hasher:      hasher,
		logger:      logger.With("module", "sessions"),
	}
}

// TTL is the lifetime of issued sessions.
func (s *SessionService) TTL() time.Duration {
	return s.signer.TTL()
}

// IssueSession signs a token for u.
func (s *SessionService) IssueSession(u *models.User) (string, time.Time, error) {
	tok, exp, err := s.signer.Sign(auth.Identity{
		ID:    u.ID,
		Email: u.Email,
		Role:  string(u.Role),
		Name:  u.Name,
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return tok, exp, nil
}

// Authenticate checks c against the credential store. Unknown users and
// wrong passwords both yield common.ErrInvalidCredentials.
func (s *SessionService) Authenticate(ctx context.Context, c Credentials) (*Session, error) {
	login := c.Email
	if strings.TrimSpace(login) == "" {
		login = c.Username
	}
	login = strings.ToLower(strings.TrimSpace(login))

	verr := common.NewValidationError()
	if login == "" {
		verr.Add("email", "is required")
	}
	if c.Password == "" {
		verr.Add("password", "is required")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep timing close to the wrong-password path
			_ = s.hasher.Compare(s.dummy(ctx), c.Password)
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "credential lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.hasher.Compare(user.PasswordHash, c.Password); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	tok, exp, err := s.IssueSession(user)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err)
		return nil, err
	}

	return &Session{Token: tok, ExpiresAt: exp, User: user.Safe()}, nil
}

// Verify validates a token and returns the identity it carries.
func (s *SessionService) Verify(token string) (auth.Identity, error) {
	return s.signer.Verify(token)
}

// fallbackDummyHash is a well-formed cost-10 bcrypt digest compared against
// when the dummy hash cannot be generated.
const fallbackDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func (s *SessionService) dummy(ctx context.Context) string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("not-a-real-password")
		if err != nil {
			s.logger.Warn(ctx, "dummy hash generation failed, using fallback digest", "error", err)
			h = fallbackDummyHash
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
