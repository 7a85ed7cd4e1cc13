package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-desk/internal/api/dto"
	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

func TestValidateStruct_UsesJSONFieldNames(t *testing.T) {
	lat := 120.0
	err := ValidateStruct(dto.TicketCreateRequest{
		Title:       "Hi",
		Description: "too short",
		Latitude:    &lat,
	})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, 400, domainErr.HTTPStatus)
	assert.Equal(t, "title must be at least 5 characters long", domainErr.Details["title"])
	assert.Equal(t, "description must be at least 20 characters long", domainErr.Details["description"])
	assert.Equal(t, "latitude must be at most 90", domainErr.Details["latitude"])
}

func TestValidateStruct_Enums(t *testing.T) {
	err := ValidateStruct(dto.UserCreateRequest{
		Name: "Ann", Email: "ann@voicebox.com", LoginID: "AN01", Password: "pw", Role: "ROOT",
	})
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "role must be one of [ADMIN USER HR STAFF]", domainErr.Details["role"])

	assert.NoError(t, ValidateStruct(dto.UserCreateRequest{
		Name: "Ann", Email: "ann@voicebox.com", LoginID: "AN01", Password: "pw",
	}))
}
