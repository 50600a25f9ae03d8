package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/idea-portal/internal/auth"
	"github.com/spec-kit/idea-portal/internal/domain"
	"github.com/spec-kit/idea-portal/internal/repository"
)

var (
	// ErrEmailTaken is returned when registering an address that already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown emails, wrong passwords and wrong login areas.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserAccounts is the subset of user storage the auth service needs.
type UserAccounts interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Session is an issued credential.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users    UserAccounts
	tokenMgr *auth.TokenManager
	hasher   *auth.PasswordHasher
}

// NewAuthService builds the service.
func NewAuthService(users UserAccounts, tokens *auth.TokenManager, hasher *auth.PasswordHasher) *AuthService {
	return &AuthService{users: users, tokenMgr: tokens, hasher: hasher}
}

// Register creates an account holding role and signs it in.
func (s *AuthService) Register(ctx context.Context, role domain.Role, name, email, password string) (*domain.User, Session, error) {
	if !role.Valid() {
		return nil, Session{}, errors.New("unknown role")
	}
	email = normalizeEmail(email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, Session{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, Session{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, Session{}, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, Session{}, ErrEmailTaken
		}
		return nil, Session{}, err
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, Session{}, err
	}
	user.PasswordHash = ""
	return user, session, nil
}

// Login authenticates against the login area of role. An account holding another role
// cannot sign in through this area.
func (s *AuthService) Login(ctx context.Context, role domain.Role, email, password string) (*domain.User, Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = s.hasher.CompareMissing(password)
			return nil, Session{}, ErrInvalidCredentials
		}
		return nil, Session{}, err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, Session{}, ErrInvalidCredentials
	}
	if user.Role != role {
		return nil, Session{}, ErrInvalidCredentials
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, Session{}, err
	}
	user.PasswordHash = ""
	return user, session, nil
}

func (s *AuthService) issue(user *domain.User) (Session, error) {
	token, exp, err := s.tokenMgr.Issue(user)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: exp}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
