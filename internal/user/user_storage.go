package user

import (
	"context"

	"github.com/VitaminP8/blogql/graph/model"
)

type UserStorage interface {
	CreateUser(ctx context.Context, input model.CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id string, input model.UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error)
	GetUsers(ctx context.Context, query string) ([]*model.User, error)
}
