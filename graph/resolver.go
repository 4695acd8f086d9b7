package graph

//go:generate go run github.com/99designs/gqlgen generate

import (
	"errors"
	"sync"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/comment"
	"github.com/VitaminP8/blogql/internal/post"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/subscription"
	"github.com/VitaminP8/blogql/internal/user"
	"go.uber.org/zap"
)

// Resolver is the root of all resolvers and carries their dependencies.
type Resolver struct {
	UserStore    user.UserStorage
	PostStore    post.PostStorage
	CommentStore comment.CommentStorage
	PostFeed     subscription.Manager[*model.Post]
	CommentFeed  subscription.Manager[*model.Comment]
	Logger       *zap.Logger

	// mu orders whole GraphQL operations against each other, see isolate.
	mu sync.RWMutex
}

// NewResolver wires every entity store to the same backend.
func NewResolver(store storage.Storage, posts subscription.Manager[*model.Post], comments subscription.Manager[*model.Comment], log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		UserStore:    store,
		PostStore:    store,
		CommentStore: store,
		PostFeed:     posts,
		CommentFeed:  comments,
		Logger:       log.Named("graph"),
	}
}

func (r *Resolver) log() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// orNil turns a missing record into a null result.
func orNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return v, err
}
