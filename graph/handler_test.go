package graph

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/99designs/gqlgen/client"
	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/dataloader"
	"github.com/VitaminP8/blogql/internal/storage/memory"
	"github.com/VitaminP8/blogql/internal/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*client.Client, *Resolver) {
	t.Helper()
	store := memory.NewMemoryStorage(nil)
	resolver := NewResolver(
		store,
		subscription.NewSubscriptionManager[*model.Post](0, nil),
		subscription.NewSubscriptionManager[*model.Comment](0, nil),
		nil,
	)
	return client.New(dataloader.Middleware(store, NewHandler(resolver, nil))), resolver
}

type userResp struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age"`
}

func TestHandler_MutationsAndRelationships(t *testing.T) {
	c, _ := newTestClient(t)

	var created struct {
		CreateUser userResp `json:"createUser"`
	}
	c.MustPost(`mutation($name: String!, $email: String!) {
		createUser(data: {name: $name, email: $email, age: 27}) { id name email age }
	}`, &created, client.Var("name", "Blake"), client.Var("email", "blake@example.com"))

	require.NotEmpty(t, created.CreateUser.ID)
	require.NotNil(t, created.CreateUser.Age)
	assert.Equal(t, 27, *created.CreateUser.Age)

	var post struct {
		CreatePost struct {
			ID     string   `json:"id"`
			Author userResp `json:"author"`
		} `json:"createPost"`
	}
	c.MustPost(`mutation($author: ID!) {
		createPost(data: {title: "GraphQL 101", body: "This is how to use GraphQL...", published: true, author: $author}) {
			id
			author { id name }
		}
	}`, &post, client.Var("author", created.CreateUser.ID))
	assert.Equal(t, "Blake", post.CreatePost.Author.Name)

	var comment struct {
		CreateComment struct {
			ID   string `json:"id"`
			Post struct {
				ID string `json:"id"`
			} `json:"post"`
		} `json:"createComment"`
	}
	c.MustPost(`mutation($author: ID!, $post: ID!) {
		createComment(data: {text: "This is the first comment", author: $author, post: $post}) { id post { id } }
	}`, &comment, client.Var("author", created.CreateUser.ID), client.Var("post", post.CreatePost.ID))
	assert.Equal(t, post.CreatePost.ID, comment.CreateComment.Post.ID)

	var list struct {
		Users []struct {
			Name  string `json:"name"`
			Posts []struct {
				Title    string `json:"title"`
				Comments []struct {
					Text   string   `json:"text"`
					Author userResp `json:"author"`
				} `json:"comments"`
			} `json:"posts"`
		} `json:"users"`
	}
	c.MustPost(`{ users(query: "bla") { name posts { title comments { text author { name } } } } }`, &list)
	require.Len(t, list.Users, 1)
	require.Len(t, list.Users[0].Posts, 1)
	require.Len(t, list.Users[0].Posts[0].Comments, 1)
	assert.Equal(t, "Blake", list.Users[0].Posts[0].Comments[0].Author.Name)

	var updated struct {
		UpdateUser userResp `json:"updateUser"`
	}
	c.MustPost(`mutation($id: ID!) { updateUser(id: $id, data: {age: null}) { id name age } }`,
		&updated, client.Var("id", created.CreateUser.ID))
	assert.Equal(t, "Blake", updated.UpdateUser.Name)
	assert.Nil(t, updated.UpdateUser.Age)

	var deleted struct {
		DeleteUser userResp `json:"deleteUser"`
	}
	c.MustPost(`mutation($id: ID!) { deleteUser(id: $id) { id } }`, &deleted, client.Var("id", created.CreateUser.ID))
	assert.Equal(t, created.CreateUser.ID, deleted.DeleteUser.ID)

	var after struct {
		Posts    []struct{ ID string } `json:"posts"`
		Comments []struct{ ID string } `json:"comments"`
	}
	c.MustPost(`{ posts { id } comments { id } }`, &after)
	assert.Empty(t, after.Posts)
	assert.Empty(t, after.Comments)
}

func TestHandler_ErrorExtensions(t *testing.T) {
	c, _ := newTestClient(t)

	var resp map[string]interface{}
	err := c.Post(`mutation { deletePost(id: "missing") { id } }`, &resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), CodeNotFound)
	assert.Contains(t, err.Error(), "post missing not found")

	c.MustPost(`mutation { createUser(data: {name: "A", email: "a@example.com"}) { id } }`, &resp)
	err = c.Post(`mutation { createUser(data: {name: "B", email: "a@example.com"}) { id } }`, &resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), CodeConflict)
	assert.Contains(t, err.Error(), "email")
}

func TestHandler_SingleLookups(t *testing.T) {
	c, _ := newTestClient(t)

	var resp struct {
		User    *userResp `json:"user"`
		Post    *struct{ ID string } `json:"post"`
		Comment *struct{ ID string } `json:"comment"`
	}
	c.MustPost(`{ user(id: "x") { id } post(id: "x") { id } comment(id: "x") { id } }`, &resp)
	assert.Nil(t, resp.User)
	assert.Nil(t, resp.Post)
	assert.Nil(t, resp.Comment)
}

func TestHandler_PostSubscription(t *testing.T) {
	c, resolver := newTestClient(t)

	author, err := resolver.Mutation().CreateUser(context.Background(), model.CreateUserInput{Name: "Julie", Email: "julie@example.com"})
	require.NoError(t, err)

	sub := c.Websocket(`subscription { post { title author { name } } }`)
	defer sub.Close()

	feed := resolver.PostFeed.(*subscription.SubscriptionManager[*model.Post])
	require.Eventually(t, func() bool {
		return feed.Subscribers(subscription.PostTopic) == 1
	}, time.Second, 10*time.Millisecond)

	c.MustPost(`mutation($author: ID!) {
		createPost(data: {title: "Programming Music", body: "", published: true, author: $author}) { id }
	}`, &map[string]interface{}{}, client.Var("author", author.ID))

	var msg struct {
		Post struct {
			Title  string   `json:"title"`
			Author userResp `json:"author"`
		} `json:"post"`
	}
	require.NoError(t, sub.Next(&msg))
	assert.Equal(t, "Programming Music", msg.Post.Title)
	assert.Equal(t, "Julie", msg.Post.Author.Name)
}

func TestHandler_QueriesDuringDeleteUser(t *testing.T) {
	c, resolver := newTestClient(t)
	ctx := context.Background()

	var userIDs []string
	for i := 0; i < 50; i++ {
		u, err := resolver.Mutation().CreateUser(ctx, model.CreateUserInput{
			Name:  fmt.Sprintf("User %d", i),
			Email: fmt.Sprintf("user%d@example.com", i),
		})
		require.NoError(t, err)
		userIDs = append(userIDs, u.ID)

		for j := 0; j < 3; j++ {
			_, err := resolver.Mutation().CreatePost(ctx, model.CreatePostInput{
				Title:  fmt.Sprintf("Post %d.%d", i, j),
				Body:   "b",
				Author: u.ID,
			})
			require.NoError(t, err)
		}
	}

	done := make(chan struct{})
	var queries, failures atomic.Int32
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}

				var resp struct {
					Posts []struct {
						ID     string `json:"id"`
						Author struct {
							ID string `json:"id"`
						} `json:"author"`
					} `json:"posts"`
				}
				queries.Add(1)
				if err := c.Post(`{ posts { id author { id } } }`, &resp); err != nil {
					failures.Add(1)
				}
			}
		}()
	}

	for _, id := range userIDs {
		var resp map[string]interface{}
		c.MustPost(`mutation($id: ID!) { deleteUser(id: $id) { id } }`, &resp, client.Var("id", id))
	}
	close(done)
	wg.Wait()

	assert.Positive(t, queries.Load())
	assert.Zero(t, failures.Load(), "queries saw a user deleted halfway through")
}
