package model

import "github.com/99designs/gqlgen/graphql"

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age,omitempty"`
}

type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	AuthorID  string `json:"authorId"`
}

type Comment struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	AuthorID string `json:"authorId"`
	PostID   string `json:"postId"`
}

type CreateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age,omitempty"`
}

// UpdateUserInput is a partial patch. Fields that are not set are left as is.
// A set Age with a nil value clears the age.
type UpdateUserInput struct {
	Name  graphql.Omittable[*string] `json:"name,omitempty"`
	Email graphql.Omittable[*string] `json:"email,omitempty"`
	Age   graphql.Omittable[*int]    `json:"age,omitempty"`
}

type CreatePostInput struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	Author    string `json:"author"`
}

type UpdatePostInput struct {
	Title     graphql.Omittable[*string] `json:"title,omitempty"`
	Body      graphql.Omittable[*string] `json:"body,omitempty"`
	Published graphql.Omittable[*bool]   `json:"published,omitempty"`
}

type CreateCommentInput struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Post   string `json:"post"`
}

type UpdateCommentInput struct {
	Text graphql.Omittable[*string] `json:"text,omitempty"`
}

// Present returns the patch value when it was provided and is not null.
func Present[T any](o graphql.Omittable[*T]) (T, bool) {
	var zero T
	v, ok := o.ValueOK()
	if !ok || v == nil {
		return zero, false
	}
	return *v, true
}
