package graph

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorPresenter(t *testing.T) {
	ctx := context.Background()

	t.Run("Not found", func(t *testing.T) {
		gqlErr := ErrorPresenter(ctx, storage.NewNotFound(storage.EntityPost, "p1"))
		require.NotNil(t, gqlErr)
		assert.Equal(t, "post p1 not found", gqlErr.Message)
		assert.Equal(t, CodeNotFound, gqlErr.Extensions["code"])
		assert.Equal(t, storage.EntityPost, gqlErr.Extensions["entity"])
		assert.Equal(t, "p1", gqlErr.Extensions["id"])
	})

	t.Run("Wrapped conflict", func(t *testing.T) {
		err := fmt.Errorf("create: %w", storage.NewConflict(storage.EntityUser, "email", "a@example.com"))
		gqlErr := ErrorPresenter(ctx, err)
		assert.Equal(t, CodeConflict, gqlErr.Extensions["code"])
		assert.Equal(t, "email", gqlErr.Extensions["field"])
		assert.Equal(t, "a@example.com", gqlErr.Extensions["value"])
	})

	t.Run("Other errors carry no code", func(t *testing.T) {
		gqlErr := ErrorPresenter(ctx, errors.New("boom"))
		assert.Equal(t, "boom", gqlErr.Message)
		assert.NotContains(t, gqlErr.Extensions, "code")
	})
}
