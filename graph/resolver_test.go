package graph

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/mocks"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/storage/memory"
	"github.com/VitaminP8/blogql/internal/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	resolver *Resolver
	store    *memory.MemoryStorage
	posts    *mocks.MockSubscriptionManager[*model.Post]
	comments *mocks.MockSubscriptionManager[*model.Comment]
}

func newTestEnv() *testEnv {
	env := &testEnv{
		store:    memory.NewMemoryStorage(nil),
		posts:    mocks.NewMockSubscriptionManager[*model.Post](),
		comments: mocks.NewMockSubscriptionManager[*model.Comment](),
	}
	env.resolver = NewResolver(env.store, env.posts, env.comments, nil)
	return env
}

func (env *testEnv) createUser(t *testing.T, name, email string) *model.User {
	t.Helper()
	u, err := env.resolver.Mutation().CreateUser(context.Background(), model.CreateUserInput{Name: name, Email: email})
	require.NoError(t, err)
	return u
}

func (env *testEnv) createPost(t *testing.T, authorID, title string, published bool) *model.Post {
	t.Helper()
	p, err := env.resolver.Mutation().CreatePost(context.Background(), model.CreatePostInput{
		Title:     title,
		Body:      "Body of " + title,
		Published: published,
		Author:    authorID,
	})
	require.NoError(t, err)
	return p
}

func TestMutationResolver_CreatePost(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	author := env.createUser(t, "Alice", "alice@example.com")

	t.Run("Published post is announced", func(t *testing.T) {
		post := env.createPost(t, author.ID, "Hello", true)
		assert.NotEmpty(t, post.ID)
		assert.Equal(t, author.ID, post.AuthorID)

		notifications := env.posts.GetNotifications(subscription.PostTopic)
		require.Len(t, notifications, 1)
		assert.Equal(t, post.ID, notifications[0].ID)
	})

	t.Run("Draft is not announced", func(t *testing.T) {
		env.createPost(t, author.ID, "Draft", false)
		assert.Len(t, env.posts.GetNotifications(subscription.PostTopic), 1)
	})

	t.Run("Error when author does not exist", func(t *testing.T) {
		post, err := env.resolver.Mutation().CreatePost(ctx, model.CreatePostInput{Title: "T", Body: "B", Published: true, Author: "missing"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Nil(t, post)
		assert.Len(t, env.posts.GetNotifications(subscription.PostTopic), 1)
	})
}

func TestMutationResolver_UpdatePost(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	author := env.createUser(t, "Alice", "alice@example.com")
	post := env.createPost(t, author.ID, "Draft", false)

	updated, err := env.resolver.Mutation().UpdatePost(ctx, post.ID, model.UpdatePostInput{
		Published: graphql.OmittableOf(ptr(true)),
	})
	require.NoError(t, err)
	assert.True(t, updated.Published)
	assert.Equal(t, "Draft", updated.Title)

	assert.Empty(t, env.posts.Topics())

	_, err = env.resolver.Mutation().UpdatePost(ctx, "missing", model.UpdatePostInput{})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMutationResolver_CreateComment(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	author := env.createUser(t, "Alice", "alice@example.com")
	post := env.createPost(t, author.ID, "Hello", false)

	t.Run("Comment is announced on its post topic", func(t *testing.T) {
		c, err := env.resolver.Mutation().CreateComment(ctx, model.CreateCommentInput{Text: "Nice", Author: author.ID, Post: post.ID})
		require.NoError(t, err)

		notifications := env.comments.GetNotifications(subscription.CommentTopic(post.ID))
		require.Len(t, notifications, 1)
		assert.Equal(t, c.ID, notifications[0].ID)
	})

	t.Run("Missing author is reported before missing post", func(t *testing.T) {
		_, err := env.resolver.Mutation().CreateComment(ctx, model.CreateCommentInput{Text: "x", Author: "nobody", Post: "nothing"})
		var nf *storage.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, storage.EntityUser, nf.Entity)
	})

	t.Run("Missing post", func(t *testing.T) {
		_, err := env.resolver.Mutation().CreateComment(ctx, model.CreateCommentInput{Text: "x", Author: author.ID, Post: "nothing"})
		var nf *storage.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, storage.EntityPost, nf.Entity)
	})

	assert.Equal(t, map[string]int{subscription.CommentTopic(post.ID): 1}, env.comments.Topics())
}

func TestMutationResolver_DeleteUserCascades(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "Alice", "alice@example.com")
	bob := env.createUser(t, "Bob", "bob@example.com")

	alicePost := env.createPost(t, alice.ID, "Alice's", true)
	bobPost := env.createPost(t, bob.ID, "Bob's", true)

	_, err := env.resolver.Mutation().CreateComment(ctx, model.CreateCommentInput{Text: "on alice", Author: bob.ID, Post: alicePost.ID})
	require.NoError(t, err)
	_, err = env.resolver.Mutation().CreateComment(ctx, model.CreateCommentInput{Text: "by alice", Author: alice.ID, Post: bobPost.ID})
	require.NoError(t, err)
	kept, err := env.resolver.Mutation().CreateComment(ctx, model.CreateCommentInput{Text: "by bob", Author: bob.ID, Post: bobPost.ID})
	require.NoError(t, err)

	deleted, err := env.resolver.Mutation().DeleteUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, deleted.ID)

	posts, err := env.resolver.Query().Posts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, bobPost.ID, posts[0].ID)

	comments, err := env.resolver.Query().Comments(ctx)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, kept.ID, comments[0].ID)

	_, err = env.resolver.Mutation().DeleteUser(ctx, alice.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMutationResolver_UpdateUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "Alice", "alice@example.com")
	env.createUser(t, "Bob", "bob@example.com")

	t.Run("Own email", func(t *testing.T) {
		u, err := env.resolver.Mutation().UpdateUser(ctx, alice.ID, model.UpdateUserInput{
			Email: graphql.OmittableOf(ptr("alice@example.com")),
		})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
	})

	t.Run("Taken email", func(t *testing.T) {
		_, err := env.resolver.Mutation().UpdateUser(ctx, alice.ID, model.UpdateUserInput{
			Email: graphql.OmittableOf(ptr("bob@example.com")),
		})
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("Age set and cleared", func(t *testing.T) {
		u, err := env.resolver.Mutation().UpdateUser(ctx, alice.ID, model.UpdateUserInput{
			Age: graphql.OmittableOf(ptr(30)),
		})
		require.NoError(t, err)
		require.NotNil(t, u.Age)
		assert.Equal(t, 30, *u.Age)

		u, err = env.resolver.Mutation().UpdateUser(ctx, alice.ID, model.UpdateUserInput{
			Age: graphql.OmittableOf[*int](nil),
		})
		require.NoError(t, err)
		assert.Nil(t, u.Age)
	})
}

func TestQueryResolver(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "Alice", "alice@example.com")
	env.createUser(t, "Bob", "bob@example.com")
	post := env.createPost(t, alice.ID, "GraphQL 101", true)

	t.Run("Users filtered by name", func(t *testing.T) {
		users, err := env.resolver.Query().Users(ctx, ptr("ALI"))
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Alice", users[0].Name)

		users, err = env.resolver.Query().Users(ctx, ptr(""))
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("Posts filtered by title or body", func(t *testing.T) {
		posts, err := env.resolver.Query().Posts(ctx, ptr("body of graphql"))
		require.NoError(t, err)
		assert.Len(t, posts, 1)

		posts, err = env.resolver.Query().Posts(ctx, ptr("rust"))
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("Single lookups return nil when absent", func(t *testing.T) {
		u, err := env.resolver.Query().User(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, u.ID)

		p, err := env.resolver.Query().Post(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, p.ID)

		u, err = env.resolver.Query().User(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, u)

		p, err = env.resolver.Query().Post(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, p)

		c, err := env.resolver.Query().Comment(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, c)
	})
}

func TestRelationshipResolvers(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.createUser(t, "Alice", "alice@example.com")
	bob := env.createUser(t, "Bob", "bob@example.com")
	post := env.createPost(t, alice.ID, "Hello", true)
	c, err := env.resolver.Mutation().CreateComment(ctx, model.CreateCommentInput{Text: "Hi", Author: bob.ID, Post: post.ID})
	require.NoError(t, err)

	author, err := env.resolver.Post().Author(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, author.ID)

	comments, err := env.resolver.Post().Comments(ctx, post)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, c.ID, comments[0].ID)

	commentAuthor, err := env.resolver.Comment().Author(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, commentAuthor.ID)

	commentPost, err := env.resolver.Comment().Post(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, post.ID, commentPost.ID)

	alicePosts, err := env.resolver.User().Posts(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, alicePosts, 1)

	bobComments, err := env.resolver.User().Comments(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, bobComments, 1)

	_, err = env.resolver.Post().Author(ctx, &model.Post{ID: "p", AuthorID: "gone"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSubscriptionResolver_Post(t *testing.T) {
	store := memory.NewMemoryStorage(nil)
	feed := subscription.NewSubscriptionManager[*model.Post](4, nil)
	resolver := NewResolver(store, feed, subscription.NewSubscriptionManager[*model.Comment](4, nil), nil)

	author, err := resolver.Mutation().CreateUser(context.Background(), model.CreateUserInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := resolver.Subscription().Post(ctx)
	require.NoError(t, err)

	created, err := resolver.Mutation().CreatePost(context.Background(), model.CreatePostInput{Title: "Live", Body: "b", Published: true, Author: author.ID})
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, created.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a post event")
	}

	late, err := resolver.Subscription().Post(context.Background())
	require.NoError(t, err)
	select {
	case <-late:
		t.Fatal("late subscriber must not see earlier posts")
	default:
	}

	cancel()
	require.Eventually(t, func() bool {
		return feed.Subscribers(subscription.PostTopic) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSubscriptionResolver_Comment(t *testing.T) {
	env := newTestEnv()
	author := env.createUser(t, "Alice", "alice@example.com")
	post := env.createPost(t, author.ID, "Hello", true)

	t.Run("Unknown post", func(t *testing.T) {
		ch, err := env.resolver.Subscription().Comment(context.Background(), "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Nil(t, ch)
	})

	t.Run("Receives comments of the post", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch, err := env.resolver.Subscription().Comment(ctx, post.ID)
		require.NoError(t, err)

		c, err := env.resolver.Mutation().CreateComment(context.Background(), model.CreateCommentInput{Text: "First", Author: author.ID, Post: post.ID})
		require.NoError(t, err)

		select {
		case got := <-ch:
			assert.Equal(t, c.ID, got.ID)
		case <-time.After(time.Second):
			t.Fatal("expected a comment event")
		}
	})
}

func TestOrNil(t *testing.T) {
	u, err := orNil[model.User](nil, storage.NewNotFound(storage.EntityUser, "x"))
	assert.NoError(t, err)
	assert.Nil(t, u)

	_, err = orNil[model.User](nil, assert.AnError)
	assert.ErrorIs(t, err, assert.AnError)

	assert.Equal(t, "", deref(nil))
	assert.Equal(t, "q", deref(ptr("q")))
}

// schema.resolvers.go is rewritten by gqlgen, which comments out anything
// that is not a resolver method or resolver type.
func TestSchemaResolversHoldOnlyResolvers(t *testing.T) {
	file, err := parser.ParseFile(token.NewFileSet(), "schema.resolvers.go", nil, 0)
	require.NoError(t, err)

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		assert.NotNil(t, fn.Recv, "free function %s in schema.resolvers.go", fn.Name.Name)
	}
}

func ptr[T any](v T) *T {
	return &v
}
