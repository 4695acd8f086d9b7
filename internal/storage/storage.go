package storage

import (
	"github.com/VitaminP8/blogql/internal/comment"
	"github.com/VitaminP8/blogql/internal/post"
	"github.com/VitaminP8/blogql/internal/user"
)

// Storage is a single store owning users, posts and comments. Cascading
// deletes span all three collections, so one backend implements every
// entity contract and applies each mutation atomically.
type Storage interface {
	user.UserStorage
	post.PostStorage
	comment.CommentStorage
}

// Entity names used in errors.
const (
	EntityUser    = "User"
	EntityPost    = "Post"
	EntityComment = "Comment"
)
