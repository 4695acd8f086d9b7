// Package seed loads demo data into a store. Fixtures refer to records by
// local keys; the store assigns the real ids.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/storage"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFixture []byte

type Fixture struct {
	Users    []User    `yaml:"users"`
	Posts    []Post    `yaml:"posts"`
	Comments []Comment `yaml:"comments"`
}

type User struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Age   *int   `yaml:"age"`
}

type Post struct {
	Key       string `yaml:"key"`
	Title     string `yaml:"title"`
	Body      string `yaml:"body"`
	Published bool   `yaml:"published"`
	Author    string `yaml:"author"`
}

type Comment struct {
	Text   string `yaml:"text"`
	Author string `yaml:"author"`
	Post   string `yaml:"post"`
}

// Result maps fixture keys to the ids the store generated.
type Result struct {
	Users    map[string]string
	Posts    map[string]string
	Comments []string
}

func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse seed fixture: %w", err)
	}
	return &fx, nil
}

// Apply creates every fixture record through the regular storage operations,
// so the usual validation (unique emails, existing references) applies.
func Apply(ctx context.Context, store storage.Storage, fx *Fixture) (*Result, error) {
	res := &Result{
		Users: make(map[string]string, len(fx.Users)),
		Posts: make(map[string]string, len(fx.Posts)),
	}

	for _, u := range fx.Users {
		created, err := store.CreateUser(ctx, model.CreateUserInput{Name: u.Name, Email: u.Email, Age: u.Age})
		if err != nil {
			return nil, fmt.Errorf("seed user %q: %w", u.Key, err)
		}
		res.Users[u.Key] = created.ID
	}

	for _, p := range fx.Posts {
		created, err := store.CreatePost(ctx, model.CreatePostInput{
			Title:     p.Title,
			Body:      p.Body,
			Published: p.Published,
			Author:    lookup(res.Users, p.Author),
		})
		if err != nil {
			return nil, fmt.Errorf("seed post %q: %w", p.Key, err)
		}
		res.Posts[p.Key] = created.ID
	}

	for i, c := range fx.Comments {
		created, err := store.CreateComment(ctx, model.CreateCommentInput{
			Text:   c.Text,
			Author: lookup(res.Users, c.Author),
			Post:   lookup(res.Posts, c.Post),
		})
		if err != nil {
			return nil, fmt.Errorf("seed comment %d: %w", i, err)
		}
		res.Comments = append(res.Comments, created.ID)
	}

	return res, nil
}

// lookup resolves a fixture key. Unknown keys are passed through unchanged
// and rejected by the store as missing references.
func lookup(ids map[string]string, key string) string {
	if id, ok := ids[key]; ok {
		return id
	}
	return key
}
