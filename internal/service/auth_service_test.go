package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/idea-portal/internal/auth"
	"github.com/spec-kit/idea-portal/internal/domain"
	"github.com/spec-kit/idea-portal/internal/repository"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type memoryUsers struct {
	byEmail   map[string]*domain.User
	createErr error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: map[string]*domain.User{}}
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "u-" + user.Email
	stored := *user
	m.byEmail[user.Email] = &stored
	return nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

var testTokens = auth.NewTokenManager(testSecret, time.Hour)

func newTestAuthService(users UserAccounts) *AuthService {
	return NewAuthService(users, testTokens, auth.NewPasswordHasher(bcrypt.MinCost))
}

func TestAuthService_Register(t *testing.T) {
	users := newMemoryUsers()
	svc := newTestAuthService(users)

	user, session, err := svc.Register(context.Background(), domain.RoleStudent, " Ada ", "Ada@Example.edu ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.edu", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.NotEmpty(t, session.Token)

	identity, ok := testTokens.Verify(session.Token)
	require.True(t, ok)
	assert.Equal(t, domain.RoleStudent, identity.Role)
	assert.Equal(t, user.ID, identity.UserID)

	stored := users.byEmail["ada@example.edu"]
	assert.NotEqual(t, "password1", stored.PasswordHash)

	_, _, err = svc.Register(context.Background(), domain.RoleStaff, "Ada", "ada@example.edu", "password2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_RegisterRace(t *testing.T) {
	users := newMemoryUsers()
	users.createErr = repository.ErrDuplicateEmail
	svc := newTestAuthService(users)

	_, _, err := svc.Register(context.Background(), domain.RoleStaff, "Grace", "grace@example.edu", "password1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_RegisterUnknownRole(t *testing.T) {
	svc := newTestAuthService(newMemoryUsers())
	_, _, err := svc.Register(context.Background(), domain.Role("admin"), "Eve", "eve@example.edu", "password1")
	assert.Error(t, err)
}

func TestAuthService_Login(t *testing.T) {
	users := newMemoryUsers()
	svc := newTestAuthService(users)
	_, _, err := svc.Register(context.Background(), domain.RoleStaff, "Grace", "grace@example.edu", "password1")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		user, session, err := svc.Login(context.Background(), domain.RoleStaff, "GRACE@example.edu", "password1")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleStaff, user.Role)
		assert.Empty(t, user.PasswordHash)
		assert.True(t, session.ExpiresAt.After(time.Now()))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), domain.RoleStaff, "grace@example.edu", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("other role area", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), domain.RoleStudent, "grace@example.edu", "password1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), domain.RoleStaff, "nobody@example.edu", "password1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

type failingUsers struct{ err error }

func (f failingUsers) Create(context.Context, *domain.User) error { return f.err }

func (f failingUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, f.err
}

func TestAuthService_StorageFailure(t *testing.T) {
	boom := errors.New("db down")
	svc := newTestAuthService(failingUsers{err: boom})

	_, _, err := svc.Login(context.Background(), domain.RoleStudent, "ada@example.edu", "password1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Register(context.Background(), domain.RoleStudent, "Ada", "ada@example.edu", "password1")
	assert.ErrorIs(t, err, boom)
}
