package dataloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/storage/memory"
	"github.com/VitaminP8/blogql/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts bulk lookups.
type countingStore struct {
	storage.Storage
	userBatches atomic.Int32
	postBatches atomic.Int32
}

func (s *countingStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	s.userBatches.Add(1)
	return s.Storage.GetUsersByIDs(ctx, ids)
}

func (s *countingStore) GetPostsByIDs(ctx context.Context, ids []string) (map[string]*model.Post, error) {
	s.postBatches.Add(1)
	return s.Storage.GetPostsByIDs(ctx, ids)
}

func TestLoadUser_Batches(t *testing.T) {
	store := &countingStore{Storage: memory.NewMemoryStorage(nil)}
	a := storagetest.CreateUser(t, store, "Alice", "alice@example.com")
	b := storagetest.CreateUser(t, store, "Bob", "bob@example.com")

	ctx := WithLoaders(context.Background(), NewLoaders(store))

	ids := []string{a.ID, b.ID, a.ID}
	users := make([]*model.User, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := LoadUser(ctx, store, id)
			assert.NoError(t, err)
			users[i] = u
		}()
	}
	wg.Wait()

	require.NotNil(t, users[0])
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
	assert.Equal(t, "Alice", users[2].Name)
	assert.LessOrEqual(t, store.userBatches.Load(), int32(len(ids)))
	assert.GreaterOrEqual(t, store.userBatches.Load(), int32(1))
}

func TestLoadUser_Missing(t *testing.T) {
	store := memory.NewMemoryStorage(nil)
	ctx := WithLoaders(context.Background(), NewLoaders(store))

	_, err := LoadUser(ctx, store, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	var nf *storage.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, storage.EntityUser, nf.Entity)
}

func TestLoadPost_NoCache(t *testing.T) {
	store := memory.NewMemoryStorage(nil)
	u := storagetest.CreateUser(t, store, "Alice", "alice@example.com")
	p := storagetest.CreatePost(t, store, u.ID, "First", true)

	ctx := WithLoaders(context.Background(), NewLoaders(store))

	got, err := LoadPost(ctx, store, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)

	_, err = store.DeletePost(ctx, p.ID)
	require.NoError(t, err)

	_, err = LoadPost(ctx, store, p.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoad_WithoutLoaders(t *testing.T) {
	store := memory.NewMemoryStorage(nil)
	u := storagetest.CreateUser(t, store, "Alice", "alice@example.com")
	p := storagetest.CreatePost(t, store, u.ID, "First", false)

	ctx := context.Background()
	assert.Nil(t, For(ctx))

	gotUser, err := LoadUser(ctx, store, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, gotUser.ID)

	gotPost, err := LoadPost(ctx, store, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, gotPost.ID)
}

func TestMiddleware(t *testing.T) {
	store := memory.NewMemoryStorage(nil)

	var seen *Loaders
	h := Middleware(store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = For(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.NotNil(t, seen.UserByID)
	assert.NotNil(t, seen.PostByID)
}
