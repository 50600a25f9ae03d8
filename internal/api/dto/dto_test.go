package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/idea-portal/pkg/util"
)

func TestValidate_ReviewIdeaRequest(t *testing.T) {
	ok := ReviewIdeaRequest{IdeaID: "4b3f1f1e-8f2a-4c1d-9b7e-2a5c6d7e8f90", Status: "approved"}
	assert.NoError(t, Validate(ok))

	err := Validate(ReviewIdeaRequest{IdeaID: "nope", Status: "pending"})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	fields := domainErr.Details["fields"].([]FieldError)
	require.Len(t, fields, 2)
	assert.Equal(t, FieldError{Field: "ideaId", Rule: "uuid4"}, fields[0])
	assert.Equal(t, FieldError{Field: "status", Rule: "oneof", Param: "approved rejected"}, fields[1])
}

func TestValidate_RegisterRequest(t *testing.T) {
	err := Validate(RegisterRequest{Name: "Ada", Email: "not-an-email", Password: "short"})
	require.Error(t, err)
	fields := apperrors.ToDomainError(err).Details["fields"].([]FieldError)
	require.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "password", fields[1].Field)
	assert.Equal(t, "min", fields[1].Rule)
}
