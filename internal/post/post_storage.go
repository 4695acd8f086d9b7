package post

import (
	"context"

	"github.com/VitaminP8/blogql/graph/model"
)

type PostStorage interface {
	CreatePost(ctx context.Context, input model.CreatePostInput) (*model.Post, error)
	UpdatePost(ctx context.Context, id string, input model.UpdatePostInput) (*model.Post, error)
	DeletePost(ctx context.Context, id string) (*model.Post, error)
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	GetPostsByIDs(ctx context.Context, ids []string) (map[string]*model.Post, error)
	GetPosts(ctx context.Context, query string) ([]*model.Post, error)
	GetPostsByAuthor(ctx context.Context, userID string) ([]*model.Post, error)
}
