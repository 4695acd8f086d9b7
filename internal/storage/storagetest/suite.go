// Package storagetest holds the behaviour every storage.Storage backend must
// share. Backends call Run from their own tests.
package storagetest

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/99designs/gqlgen/graphql"
	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) storage.Storage

func Run(t *testing.T, newStorage Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStorage) })
	t.Run("UpdateUser", func(t *testing.T) { testUpdateUser(t, newStorage) })
	t.Run("Posts", func(t *testing.T) { testPosts(t, newStorage) })
	t.Run("Comments", func(t *testing.T) { testComments(t, newStorage) })
	t.Run("Cascades", func(t *testing.T) { testCascades(t, newStorage) })
	t.Run("Search", func(t *testing.T) { testSearch(t, newStorage) })
	t.Run("Snapshots", func(t *testing.T) { testSnapshots(t, newStorage) })
	t.Run("Concurrent", func(t *testing.T) { testConcurrent(t, newStorage) })
}

func CreateUser(t *testing.T, s storage.Storage, name, email string) *model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), model.CreateUserInput{Name: name, Email: email})
	require.NoError(t, err)
	return u
}

func CreatePost(t *testing.T, s storage.Storage, authorID, title string, published bool) *model.Post {
	t.Helper()
	p, err := s.CreatePost(context.Background(), model.CreatePostInput{
		Title:     title,
		Body:      "Body of " + title,
		Published: published,
		Author:    authorID,
	})
	require.NoError(t, err)
	return p
}

func CreateComment(t *testing.T, s storage.Storage, authorID, postID, text string) *model.Comment {
	t.Helper()
	c, err := s.CreateComment(context.Background(), model.CreateCommentInput{
		Text:   text,
		Author: authorID,
		Post:   postID,
	})
	require.NoError(t, err)
	return c
}

func ptr[T any](v T) *T { return &v }

func testUsers(t *testing.T, newStorage Factory) {
	ctx := context.Background()

	t.Run("Create user", func(t *testing.T) {
		s := newStorage(t)
		u, err := s.CreateUser(ctx, model.CreateUserInput{Name: "Blake", Email: "blake@example.com", Age: ptr(27)})
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "Blake", u.Name)
		assert.Equal(t, "blake@example.com", u.Email)
		require.NotNil(t, u.Age)
		assert.Equal(t, 27, *u.Age)

		got, err := s.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u, got)
	})

	t.Run("Create user without age", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "Olive", "olive@example.com")
		assert.Nil(t, u.Age)
	})

	t.Run("Ids are unique", func(t *testing.T) {
		s := newStorage(t)
		a := CreateUser(t, s, "A", "a@x.com")
		b := CreateUser(t, s, "B", "b@x.com")
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("Duplicate email is a conflict", func(t *testing.T) {
		s := newStorage(t)
		CreateUser(t, s, "A", "a@x.com")

		_, err := s.CreateUser(ctx, model.CreateUserInput{Name: "B", Email: "a@x.com"})
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrConflict)

		var conflict *storage.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, storage.EntityUser, conflict.Entity)
		assert.Equal(t, "email", conflict.Field)
		assert.Equal(t, "a@x.com", conflict.Value)

		users, err := s.GetUsers(ctx, "")
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("Delete user", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "A", "a@x.com")

		deleted, err := s.DeleteUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u, deleted)

		_, err = s.GetUserByID(ctx, u.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Delete unknown user", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.DeleteUser(ctx, "missing")
		require.Error(t, err)

		var notFound *storage.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, storage.EntityUser, notFound.Entity)
		assert.Equal(t, "missing", notFound.ID)
	})

	t.Run("Users keep insertion order", func(t *testing.T) {
		s := newStorage(t)
		a := CreateUser(t, s, "A", "a@x.com")
		b := CreateUser(t, s, "B", "b@x.com")
		c := CreateUser(t, s, "C", "c@x.com")

		users, err := s.GetUsers(ctx, "")
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{users[0].ID, users[1].ID, users[2].ID})
	})

	t.Run("Lookup by ids", func(t *testing.T) {
		s := newStorage(t)
		a := CreateUser(t, s, "A", "a@x.com")
		b := CreateUser(t, s, "B", "b@x.com")

		found, err := s.GetUsersByIDs(ctx, []string{a.ID, b.ID, "missing"})
		require.NoError(t, err)
		assert.Len(t, found, 2)
		assert.Equal(t, a, found[a.ID])
		assert.Equal(t, b, found[b.ID])
	})
}

func testUpdateUser(t *testing.T, newStorage Factory) {
	ctx := context.Background()

	t.Run("Patch only present fields", func(t *testing.T) {
		s := newStorage(t)
		u, err := s.CreateUser(ctx, model.CreateUserInput{Name: "Julie", Email: "julie@example.com", Age: ptr(25)})
		require.NoError(t, err)

		updated, err := s.UpdateUser(ctx, u.ID, model.UpdateUserInput{Name: graphql.OmittableOf(ptr("Jules"))})
		require.NoError(t, err)
		assert.Equal(t, "Jules", updated.Name)
		assert.Equal(t, "julie@example.com", updated.Email)
		require.NotNil(t, updated.Age)
		assert.Equal(t, 25, *updated.Age)
	})

	t.Run("Null name is ignored", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "Julie", "julie@example.com")

		updated, err := s.UpdateUser(ctx, u.ID, model.UpdateUserInput{Name: graphql.OmittableOf[*string](nil)})
		require.NoError(t, err)
		assert.Equal(t, "Julie", updated.Name)
	})

	t.Run("Null age clears it", func(t *testing.T) {
		s := newStorage(t)
		u, err := s.CreateUser(ctx, model.CreateUserInput{Name: "Copper", Email: "copper@example.com", Age: ptr(5)})
		require.NoError(t, err)

		updated, err := s.UpdateUser(ctx, u.ID, model.UpdateUserInput{Age: graphql.OmittableOf[*int](nil)})
		require.NoError(t, err)
		assert.Nil(t, updated.Age)

		got, err := s.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Age)
	})

	t.Run("Set age", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "Copper", "copper@example.com")

		updated, err := s.UpdateUser(ctx, u.ID, model.UpdateUserInput{Age: graphql.OmittableOf(ptr(6))})
		require.NoError(t, err)
		require.NotNil(t, updated.Age)
		assert.Equal(t, 6, *updated.Age)
	})

	t.Run("Email taken by another user", func(t *testing.T) {
		s := newStorage(t)
		CreateUser(t, s, "A", "a@x.com")
		b := CreateUser(t, s, "B", "b@x.com")

		_, err := s.UpdateUser(ctx, b.ID, model.UpdateUserInput{
			Name:  graphql.OmittableOf(ptr("Changed")),
			Email: graphql.OmittableOf(ptr("a@x.com")),
		})
		assert.ErrorIs(t, err, storage.ErrConflict)

		// nothing from the failed patch is applied
		got, err := s.GetUserByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "B", got.Name)
		assert.Equal(t, "b@x.com", got.Email)
	})

	t.Run("Own email is not a conflict", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "A", "a@x.com")

		updated, err := s.UpdateUser(ctx, u.ID, model.UpdateUserInput{Email: graphql.OmittableOf(ptr("a@x.com"))})
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", updated.Email)
	})

	t.Run("Change email", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "A", "a@x.com")

		updated, err := s.UpdateUser(ctx, u.ID, model.UpdateUserInput{Email: graphql.OmittableOf(ptr("new@x.com"))})
		require.NoError(t, err)
		assert.Equal(t, "new@x.com", updated.Email)

		// the old address is free again
		CreateUser(t, s, "B", "a@x.com")
	})

	t.Run("Unknown user", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.UpdateUser(ctx, "missing", model.UpdateUserInput{Name: graphql.OmittableOf(ptr("x"))})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func testPosts(t *testing.T, newStorage Factory) {
	ctx := context.Background()

	t.Run("Create post", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "A", "a@x.com")

		p, err := s.CreatePost(ctx, model.CreatePostInput{Title: "GraphQL 101", Body: "Intro", Published: true, Author: u.ID})
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "GraphQL 101", p.Title)
		assert.Equal(t, "Intro", p.Body)
		assert.True(t, p.Published)
		assert.Equal(t, u.ID, p.AuthorID)

		got, err := s.GetPostByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	})

	t.Run("Unknown author", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.CreatePost(ctx, model.CreatePostInput{Title: "T", Body: "B", Author: "nonexistent"})
		require.Error(t, err)

		var notFound *storage.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, storage.EntityUser, notFound.Entity)

		posts, err := s.GetPosts(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("Update title keeps the rest", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "A", "a@x.com")
		p := CreatePost(t, s, u.ID, "Old", true)

		updated, err := s.UpdatePost(ctx, p.ID, model.UpdatePostInput{Title: graphql.OmittableOf(ptr("New"))})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, p.Body, updated.Body)
		assert.Equal(t, p.Published, updated.Published)
		assert.Equal(t, p.AuthorID, updated.AuthorID)
	})

	t.Run("Unpublish", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "A", "a@x.com")
		p := CreatePost(t, s, u.ID, "Post", true)

		updated, err := s.UpdatePost(ctx, p.ID, model.UpdatePostInput{Published: graphql.OmittableOf(ptr(false))})
		require.NoError(t, err)
		assert.False(t, updated.Published)
		assert.Equal(t, "Post", updated.Title)
	})

	t.Run("Update unknown post", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.UpdatePost(ctx, "missing", model.UpdatePostInput{})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Delete unknown post", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.DeletePost(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Posts by author", func(t *testing.T) {
		s := newStorage(t)
		a := CreateUser(t, s, "A", "a@x.com")
		b := CreateUser(t, s, "B", "b@x.com")
		p1 := CreatePost(t, s, a.ID, "One", true)
		CreatePost(t, s, b.ID, "Two", true)
		p3 := CreatePost(t, s, a.ID, "Three", false)

		posts, err := s.GetPostsByAuthor(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, p1.ID, posts[0].ID)
		assert.Equal(t, p3.ID, posts[1].ID)

		found, err := s.GetPostsByIDs(ctx, []string{p1.ID, "missing"})
		require.NoError(t, err)
		assert.Len(t, found, 1)
		assert.Equal(t, p1, found[p1.ID])
	})
}

func testComments(t *testing.T, newStorage Factory) {
	ctx := context.Background()

	t.Run("Create comment", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "A", "a@x.com")
		p := CreatePost(t, s, u.ID, "Post", true)

		c, err := s.CreateComment(ctx, model.CreateCommentInput{Text: "Nice", Author: u.ID, Post: p.ID})
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "Nice", c.Text)
		assert.Equal(t, u.ID, c.AuthorID)
		assert.Equal(t, p.ID, c.PostID)

		got, err := s.GetCommentByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	})

	t.Run("Unknown author", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "A", "a@x.com")
		p := CreatePost(t, s, u.ID, "Post", true)

		_, err := s.CreateComment(ctx, model.CreateCommentInput{Text: "x", Author: "missing", Post: p.ID})
		var notFound *storage.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, storage.EntityUser, notFound.Entity)
	})

	t.Run("Unknown post", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "A", "a@x.com")

		_, err := s.CreateComment(ctx, model.CreateCommentInput{Text: "x", Author: u.ID, Post: "missing"})
		var notFound *storage.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, storage.EntityPost, notFound.Entity)
	})

	t.Run("Author is reported before post", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.CreateComment(ctx, model.CreateCommentInput{Text: "x", Author: "no-user", Post: "no-post"})
		var notFound *storage.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, storage.EntityUser, notFound.Entity)
		assert.Equal(t, "no-user", notFound.ID)

		comments, err := s.GetComments(ctx)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("Update comment", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "A", "a@x.com")
		p := CreatePost(t, s, u.ID, "Post", true)
		c := CreateComment(t, s, u.ID, p.ID, "Old")

		unchanged, err := s.UpdateComment(ctx, c.ID, model.UpdateCommentInput{})
		require.NoError(t, err)
		assert.Equal(t, "Old", unchanged.Text)

		updated, err := s.UpdateComment(ctx, c.ID, model.UpdateCommentInput{Text: graphql.OmittableOf(ptr("New"))})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.Text)
		assert.Equal(t, c.PostID, updated.PostID)

		_, err = s.UpdateComment(ctx, "missing", model.UpdateCommentInput{})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Delete comment has no cascade", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "A", "a@x.com")
		p := CreatePost(t, s, u.ID, "Post", true)
		c1 := CreateComment(t, s, u.ID, p.ID, "One")
		c2 := CreateComment(t, s, u.ID, p.ID, "Two")

		deleted, err := s.DeleteComment(ctx, c1.ID)
		require.NoError(t, err)
		assert.Equal(t, c1, deleted)

		_, err = s.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		_, err = s.GetPostByID(ctx, p.ID)
		require.NoError(t, err)

		comments, err := s.GetComments(ctx)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, c2.ID, comments[0].ID)

		_, err = s.DeleteComment(ctx, c1.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Comments by post and author", func(t *testing.T) {
		s := newStorage(t)
		a := CreateUser(t, s, "A", "a@x.com")
		b := CreateUser(t, s, "B", "b@x.com")
		p1 := CreatePost(t, s, a.ID, "One", true)
		p2 := CreatePost(t, s, a.ID, "Two", true)
		c1 := CreateComment(t, s, a.ID, p1.ID, "a on 1")
		c2 := CreateComment(t, s, b.ID, p1.ID, "b on 1")
		c3 := CreateComment(t, s, b.ID, p2.ID, "b on 2")

		onP1, err := s.GetCommentsByPost(ctx, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, []*model.Comment{c1, c2}, onP1)

		byB, err := s.GetCommentsByAuthor(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, []*model.Comment{c2, c3}, byB)

		none, err := s.GetCommentsByPost(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func testCascades(t *testing.T, newStorage Factory) {
	ctx := context.Background()

	t.Run("Delete user removes posts and comments", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "U", "u@x.com")
		other := CreateUser(t, s, "O", "o@x.com")

		p := CreatePost(t, s, u.ID, "P", true)
		otherPost := CreatePost(t, s, other.ID, "Other", true)
		c1 := CreateComment(t, s, u.ID, otherPost.ID, "C1 by U on other post")
		c2 := CreateComment(t, s, other.ID, p.ID, "C2 by O on P")
		kept := CreateComment(t, s, other.ID, otherPost.ID, "kept")

		_, err := s.DeleteUser(ctx, u.ID)
		require.NoError(t, err)

		_, err = s.GetUserByID(ctx, u.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.GetPostByID(ctx, p.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.GetCommentByID(ctx, c1.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.GetCommentByID(ctx, c2.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		users, err := s.GetUsers(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []*model.User{other}, users)

		posts, err := s.GetPosts(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []*model.Post{otherPost}, posts)

		comments, err := s.GetComments(ctx)
		require.NoError(t, err)
		assert.Equal(t, []*model.Comment{kept}, comments)
	})

	t.Run("Delete post removes its comments", func(t *testing.T) {
		s := newStorage(t)
		u := CreateUser(t, s, "U", "u@x.com")
		p := CreatePost(t, s, u.ID, "P", true)
		other := CreatePost(t, s, u.ID, "Other", true)
		CreateComment(t, s, u.ID, p.ID, "gone")
		kept := CreateComment(t, s, u.ID, other.ID, "kept")

		deleted, err := s.DeletePost(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p, deleted)

		comments, err := s.GetComments(ctx)
		require.NoError(t, err)
		assert.Equal(t, []*model.Comment{kept}, comments)

		_, err = s.GetUserByID(ctx, u.ID)
		assert.NoError(t, err)
	})
}

func testSearch(t *testing.T, newStorage Factory) {
	ctx := context.Background()
	s := newStorage(t)

	blake := CreateUser(t, s, "Blake", "blake@example.com")
	CreateUser(t, s, "Julie", "julie@example.com")

	for _, q := range []string{"bl", "BL", "Bl", "ake"} {
		users, err := s.GetUsers(ctx, q)
		require.NoError(t, err)
		require.Len(t, users, 1, "query %q", q)
		assert.Equal(t, blake.ID, users[0].ID)
	}

	users, err := s.GetUsers(ctx, "zzz")
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	users, err = s.GetUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, users, 2)

	inTitle, err := s.CreatePost(ctx, model.CreatePostInput{Title: "GraphQL 101", Body: "intro", Author: blake.ID})
	require.NoError(t, err)
	inBody, err := s.CreatePost(ctx, model.CreatePostInput{Title: "Advanced", Body: "more graphql", Author: blake.ID})
	require.NoError(t, err)
	_, err = s.CreatePost(ctx, model.CreatePostInput{Title: "Programming Music", Body: "", Author: blake.ID})
	require.NoError(t, err)

	posts, err := s.GetPosts(ctx, "GRAPHQL")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, inTitle.ID, posts[0].ID)
	assert.Equal(t, inBody.ID, posts[1].ID)

	posts, err = s.GetPosts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func testSnapshots(t *testing.T, newStorage Factory) {
	ctx := context.Background()
	s := newStorage(t)

	u, err := s.CreateUser(ctx, model.CreateUserInput{Name: "A", Email: "a@x.com", Age: ptr(30)})
	require.NoError(t, err)

	u.Name = "mutated by caller"
	*u.Age = 99

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
	require.NotNil(t, got.Age)
	assert.Equal(t, 30, *got.Age)

	before, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	_, err = s.UpdateUser(ctx, u.ID, model.UpdateUserInput{Name: graphql.OmittableOf(ptr("B"))})
	require.NoError(t, err)
	assert.Equal(t, "A", before.Name)
}

func testConcurrent(t *testing.T, newStorage Factory) {
	ctx := context.Background()

	t.Run("Same email from many goroutines", func(t *testing.T) {
		s := newStorage(t)

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		numGoroutines := 20

		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				_, err := s.CreateUser(ctx, model.CreateUserInput{
					Name:  "user " + strconv.Itoa(idx),
					Email: "same@example.com",
				})
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, storage.ErrConflict)
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, succeeded)
		users, err := s.GetUsers(ctx, "")
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("Readers during cascading deletes", func(t *testing.T) {
		s := newStorage(t)
		numUsers := 10

		users := make([]*model.User, numUsers)
		for i := range users {
			users[i] = CreateUser(t, s, "user "+strconv.Itoa(i), "u"+strconv.Itoa(i)+"@x.com")
			p := CreatePost(t, s, users[i].ID, "post "+strconv.Itoa(i), true)
			CreateComment(t, s, users[i].ID, p.ID, "comment "+strconv.Itoa(i))
		}

		var wg sync.WaitGroup
		for _, u := range users {
			wg.Add(2)
			go func(id string) {
				defer wg.Done()
				_, err := s.DeleteUser(ctx, id)
				assert.NoError(t, err)
			}(u.ID)
			go func() {
				defer wg.Done()
				posts, err := s.GetPosts(ctx, "")
				assert.NoError(t, err)
				comments, err := s.GetComments(ctx)
				assert.NoError(t, err)
				assert.LessOrEqual(t, len(posts), numUsers)
				assert.LessOrEqual(t, len(comments), numUsers)
			}()
		}
		wg.Wait()

		posts, err := s.GetPosts(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, posts)
		comments, err := s.GetComments(ctx)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}
