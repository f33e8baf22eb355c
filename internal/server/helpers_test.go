package server

import (
	"encoding/json"
	"errors"
	"testing"

	"rewear/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "post ID", humanizeParam("postId"))
	assert.Equal(t, "with user ID", humanizeParam("withUserId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{models.NewValidationError("bad"), fiber.StatusBadRequest},
		{models.NewUnauthorizedError("no"), fiber.StatusUnauthorized},
		{models.NewForbiddenError("no"), fiber.StatusForbidden},
		{models.NewNotFoundError("Post", nil), fiber.StatusNotFound},
		{models.NewConflictError("dup"), fiber.StatusConflict},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, mapped := mapServiceError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		var appErr *models.AppError
		require.True(t, errors.As(mapped, &appErr))
	}

	_, mapped := mapServiceError(errors.New("secret driver detail"))
	assert.Equal(t, "Internal server error", mapped.(*models.AppError).Message)
}

func TestFlexNumber(t *testing.T) {
	var body struct {
		A flexNumber `json:"a"`
		B flexNumber `json:"b"`
		C flexNumber `json:"c"`
		D flexNumber `json:"d"`
		E flexNumber `json:"e"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"7","c":"","d":null,"e":2.5}`), &body))

	assert.Equal(t, flexNumber{Value: 12, Set: true}, body.A)
	require.NotNil(t, body.B.ID())
	assert.Equal(t, uint(7), *body.B.ID())
	assert.False(t, body.C.Set)
	assert.False(t, body.D.Set)
	assert.Nil(t, body.E.ID(), "fractional values are not ids")
	assert.Equal(t, uint(0), body.D.UintOrZero())

	assert.Error(t, json.Unmarshal([]byte(`{"a":"twelve"}`), &body))
}
