package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFound(EntityUser, "42")
	assert.EqualError(t, err, "user 42 not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)

	wrapped := fmt.Errorf("resolving author: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)

	var notFound *NotFoundError
	require.True(t, errors.As(wrapped, &notFound))
	assert.Equal(t, EntityUser, notFound.Entity)
	assert.Equal(t, "42", notFound.ID)
}

func TestConflictError(t *testing.T) {
	err := NewConflict(EntityUser, "email", "a@x.com")
	assert.EqualError(t, err, `user email "a@x.com" taken`)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
}
