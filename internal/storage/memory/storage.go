package memory

import (
	"sync"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ storage.Storage = (*MemoryStorage)(nil)

// MemoryStorage keeps users, posts and comments in insertion order behind a
// single lock. Reads return copies, so callers never share memory with the
// store.
type MemoryStorage struct {
	mu       sync.RWMutex
	users    []*model.User
	posts    []*model.Post
	comments []*model.Comment
	log      *zap.Logger
	newID    func() string
}

func NewMemoryStorage(log *zap.Logger) *MemoryStorage {
	if log == nil {
		log = zap.NewNop()
	}
	return &MemoryStorage{
		log:   log.Named("memory"),
		newID: uuid.NewString,
	}
}

func copyUser(u *model.User) *model.User {
	c := *u
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	return &c
}

func copyPost(p *model.Post) *model.Post {
	c := *p
	return &c
}

func copyComment(c *model.Comment) *model.Comment {
	cp := *c
	return &cp
}

func (s *MemoryStorage) userIndex(id string) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStorage) postIndex(id string) int {
	for i, p := range s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStorage) commentIndex(id string) int {
	for i, c := range s.comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}
