package comment

import (
	"context"

	"github.com/VitaminP8/blogql/graph/model"
)

type CommentStorage interface {
	CreateComment(ctx context.Context, input model.CreateCommentInput) (*model.Comment, error)
	UpdateComment(ctx context.Context, id string, input model.UpdateCommentInput) (*model.Comment, error)
	DeleteComment(ctx context.Context, id string) (*model.Comment, error)
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)
	GetComments(ctx context.Context) ([]*model.Comment, error)
	GetCommentsByPost(ctx context.Context, postID string) ([]*model.Comment, error)
	GetCommentsByAuthor(ctx context.Context, userID string) ([]*model.Comment, error)
}
