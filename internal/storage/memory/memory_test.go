package memory

import (
	"context"
	"testing"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return NewMemoryStorage(nil)
	})
}

func TestMemoryStorage_DeleteUserReleasesSlots(t *testing.T) {
	s := NewMemoryStorage(nil)
	ctx := context.Background()

	u := storagetest.CreateUser(t, s, "A", "a@x.com")
	p := storagetest.CreatePost(t, s, u.ID, "P", true)
	storagetest.CreateComment(t, s, u.ID, p.ID, "C")

	_, err := s.DeleteUser(ctx, u.ID)
	require.NoError(t, err)

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.Empty(t, s.users)
	assert.Empty(t, s.posts)
	assert.Empty(t, s.comments)

	// cleared tail slots must not keep removed records reachable
	for _, slot := range s.users[:cap(s.users)] {
		assert.Nil(t, slot)
	}
	for _, slot := range s.posts[:cap(s.posts)] {
		assert.Nil(t, slot)
	}
	for _, slot := range s.comments[:cap(s.comments)] {
		assert.Nil(t, slot)
	}
}

func TestMemoryStorage_DeleteReleasesLastSlot(t *testing.T) {
	s := NewMemoryStorage(nil)
	ctx := context.Background()

	a := storagetest.CreateUser(t, s, "A", "a@x.com")
	b := storagetest.CreateUser(t, s, "B", "b@x.com")
	storagetest.CreatePost(t, s, a.ID, "First", true)
	last := storagetest.CreatePost(t, s, a.ID, "Second", true)
	storagetest.CreateComment(t, s, a.ID, last.ID, "one")
	c := storagetest.CreateComment(t, s, a.ID, last.ID, "two")

	_, err := s.DeleteComment(ctx, c.ID)
	require.NoError(t, err)
	_, err = s.DeletePost(ctx, last.ID)
	require.NoError(t, err)
	_, err = s.DeleteUser(ctx, b.ID)
	require.NoError(t, err)

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Len(t, s.users, 1)
	require.Len(t, s.posts, 1)
	assert.Empty(t, s.comments)

	for _, slot := range s.users[len(s.users):cap(s.users)] {
		assert.Nil(t, slot)
	}
	for _, slot := range s.posts[len(s.posts):cap(s.posts)] {
		assert.Nil(t, slot)
	}
	for _, slot := range s.comments[:cap(s.comments)] {
		assert.Nil(t, slot)
	}
}

func TestMemoryStorage_DeterministicIDs(t *testing.T) {
	s := NewMemoryStorage(nil)
	next := 0
	s.newID = func() string {
		next++
		return "id-" + string(rune('0'+next))
	}

	u, err := s.CreateUser(context.Background(), model.CreateUserInput{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", u.ID)

	p, err := s.CreatePost(context.Background(), model.CreatePostInput{Title: "T", Author: u.ID})
	require.NoError(t, err)
	assert.Equal(t, "id-2", p.ID)
}
