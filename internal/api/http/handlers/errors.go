package handlers

import (
	"errors"

	"github.com/spec-kit/idea-portal/internal/service"
	apperrors "github.com/spec-kit/idea-portal/pkg/util"
)

// serviceError translates service sentinels into client-facing errors.
func serviceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrEmailTaken):
		return apperrors.NewConflict("email already registered", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("invalid credentials")
	case errors.Is(err, service.ErrRateLimited):
		return apperrors.NewTooManyRequests(service.ErrRateLimited.Error())
	case errors.Is(err, service.ErrGenerationFailed):
		return apperrors.NewOperationFailed("failed to generate idea", err)
	case errors.Is(err, service.ErrIdeaNotUnique):
		return apperrors.NewConflict(service.ErrIdeaNotUnique.Error(), nil)
	case errors.Is(err, service.ErrIdeaNotFound):
		return apperrors.NewNotFound("project idea", nil)
	case errors.Is(err, service.ErrInvalidReviewStatus):
		return apperrors.NewValidationError(service.ErrInvalidReviewStatus.Error(), nil)
	}
	return apperrors.MapError(err)
}
