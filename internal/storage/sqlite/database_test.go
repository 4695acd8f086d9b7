package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/storage/storagetest"
	"github.com/VitaminP8/blogql/models"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens a fresh in-memory database and closes it after the test.
func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := Open(nil, false)
	require.NoError(t, err, "Failed to open in-memory SQLite")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return setupTestDB(t)
	})
}

func TestNewWithConnection(t *testing.T) {
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	s, err := NewWithConnection(db, nil, false)
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, db.HasTable(&models.User{}))
	assert.True(t, db.HasTable(&models.Post{}))
	assert.True(t, db.HasTable(&models.Comment{}))
}

func TestSQLiteStorage_DeleteUserRemovesRows(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	u := storagetest.CreateUser(t, s, "A", "a@x.com")
	p := storagetest.CreatePost(t, s, u.ID, "P", true)
	storagetest.CreateComment(t, s, u.ID, p.ID, "C")

	_, err := s.DeleteUser(ctx, u.ID)
	require.NoError(t, err)

	var users, posts, comments int
	require.NoError(t, s.db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, s.db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, s.db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Zero(t, users)
	assert.Zero(t, posts)
	assert.Zero(t, comments)
}

func TestWrap(t *testing.T) {
	notFound := storage.NewNotFound(storage.EntityPost, "p1")
	assert.Same(t, notFound, wrap("could not get post", notFound))

	conflict := storage.NewConflict(storage.EntityUser, "email", "a@x.com")
	assert.Same(t, conflict, wrap("could not create user", conflict))

	err := wrap("could not create user", errors.New("disk I/O error"))
	assert.EqualError(t, err, "could not create user: disk I/O error")
	assert.NotErrorIs(t, err, storage.ErrNotFound)
}
