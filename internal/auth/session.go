package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/idea-portal/internal/domain"
)

// IdentityResolver maps a raw credential to its claims without touching storage.
// It is the only resolver the edge matcher depends on.
type IdentityResolver interface {
	ResolveIdentity(raw string) (domain.Identity, bool)
}

// CurrentUserResolver maps a raw credential to the stored account it names.
type CurrentUserResolver interface {
	ResolveCurrentUser(ctx context.Context, raw string) (*domain.User, bool)
}

// UserLoader loads a user record without secret fields.
type UserLoader interface {
	GetProfileByID(ctx context.Context, id string) (*domain.User, error)
}

// ClaimsResolver resolves identities from token claims alone.
type ClaimsResolver struct {
	tokens *TokenManager
}

// NewClaimsResolver constructs a storage-free resolver.
func NewClaimsResolver(tokens *TokenManager) *ClaimsResolver {
	return &ClaimsResolver{tokens: tokens}
}

// ResolveIdentity returns the verified claims in raw, or false when raw is absent or invalid.
func (r *ClaimsResolver) ResolveIdentity(raw string) (domain.Identity, bool) {
	if raw == "" {
		return domain.Identity{}, false
	}
	return r.tokens.Verify(raw)
}

// SessionResolver resolves both claims and the backing user record.
type SessionResolver struct {
	*ClaimsResolver
	users  UserLoader
	logger *zap.Logger
}

// NewSessionResolver constructs a storage-backed resolver.
func NewSessionResolver(tokens *TokenManager, users UserLoader, logger *zap.Logger) *SessionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionResolver{ClaimsResolver: NewClaimsResolver(tokens), users: users, logger: logger}
}

// ResolveCurrentUser verifies raw and loads the named user. A missing record, a storage
// failure and an invalid credential all resolve to false.
func (r *SessionResolver) ResolveCurrentUser(ctx context.Context, raw string) (*domain.User, bool) {
	identity, ok := r.ResolveIdentity(raw)
	if !ok {
		return nil, false
	}

	user, err := r.users.GetProfileByID(ctx, identity.UserID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("load session user failed", zap.String("user_id", identity.UserID), zap.Error(err))
		}
		return nil, false
	}
	if user == nil {
		return nil, false
	}
	return user, true
}

var (
	_ IdentityResolver    = (*ClaimsResolver)(nil)
	_ IdentityResolver    = (*SessionResolver)(nil)
	_ CurrentUserResolver = (*SessionResolver)(nil)
)
