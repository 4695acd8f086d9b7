package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	fx, err := Default()
	require.NoError(t, err)
	assert.Len(t, fx.Users, 4)
	assert.Len(t, fx.Posts, 3)
	assert.Len(t, fx.Comments, 4)

	assert.Equal(t, "Blake", fx.Users[0].Name)
	require.NotNil(t, fx.Users[0].Age)
	assert.Equal(t, 27, *fx.Users[0].Age)
	assert.Equal(t, "", fx.Posts[2].Body)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryStorage(nil)

	fx, err := Default()
	require.NoError(t, err)

	res, err := Apply(ctx, store, fx)
	require.NoError(t, err)
	assert.Len(t, res.Users, 4)
	assert.Len(t, res.Posts, 3)
	assert.Len(t, res.Comments, 4)

	posts, err := store.GetPostsByAuthor(ctx, res.Users["blake"])
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	comments, err := store.GetCommentsByPost(ctx, res.Posts["graphql-101"])
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "This is the first comment", comments[0].Text)
	assert.Equal(t, res.Users["julie"], comments[1].AuthorID)
}

func TestApply_UnknownReference(t *testing.T) {
	fx, err := Parse([]byte(`
users:
  - key: a
    name: A
    email: a@x.com
posts:
  - key: p
    title: T
    body: B
    author: nobody
`))
	require.NoError(t, err)

	_, err = Apply(context.Background(), memory.NewMemoryStorage(nil), fx)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Contains(t, err.Error(), `seed post "p"`)
}

func TestApply_DuplicateEmail(t *testing.T) {
	fx, err := Parse([]byte(`
users:
  - {key: a, name: A, email: same@x.com}
  - {key: b, name: B, email: same@x.com}
`))
	require.NoError(t, err)

	_, err = Apply(context.Background(), memory.NewMemoryStorage(nil), fx)
	assert.ErrorIs(t, err, storage.ErrConflict)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users:\n  - {key: a, name: A, email: a@x.com, age: 40}\n"), 0o644))

	fx, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, fx.Users, 1)
	assert.Equal(t, 40, *fx.Users[0].Age)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("users: [unclosed"))
	assert.Error(t, err)
}
