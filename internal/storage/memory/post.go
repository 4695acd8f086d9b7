package memory

import (
	"context"
	"slices"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/storage"
	"go.uber.org/zap"
)

func (s *MemoryStorage) CreatePost(ctx context.Context, input model.CreatePostInput) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userIndex(input.Author) == -1 {
		return nil, storage.NewNotFound(storage.EntityUser, input.Author)
	}

	post := &model.Post{
		ID:        s.newID(),
		Title:     input.Title,
		Body:      input.Body,
		Published: input.Published,
		AuthorID:  input.Author,
	}

	s.posts = append(s.posts, post)
	return copyPost(post), nil
}

func (s *MemoryStorage) UpdatePost(ctx context.Context, id string, input model.UpdatePostInput) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.postIndex(id)
	if i == -1 {
		return nil, storage.NewNotFound(storage.EntityPost, id)
	}

	post := s.posts[i]
	if title, ok := model.Present(input.Title); ok {
		post.Title = title
	}
	if body, ok := model.Present(input.Body); ok {
		post.Body = body
	}
	if published, ok := model.Present(input.Published); ok {
		post.Published = published
	}

	return copyPost(post), nil
}

// DeletePost removes the post and every comment on it.
func (s *MemoryStorage) DeletePost(ctx context.Context, id string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.postIndex(id)
	if i == -1 {
		return nil, storage.NewNotFound(storage.EntityPost, id)
	}
	deleted := s.posts[i]
	s.posts = slices.Delete(s.posts, i, i+1)

	before := len(s.comments)
	kept := s.comments[:0]
	for _, c := range s.comments {
		if c.PostID != id {
			kept = append(kept, c)
		}
	}
	clear(s.comments[len(kept):])
	s.comments = kept

	s.log.Debug("post deleted", zap.String("id", id), zap.Int("comments", before-len(kept)))

	return deleted, nil
}

func (s *MemoryStorage) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.postIndex(id)
	if i == -1 {
		return nil, storage.NewNotFound(storage.EntityPost, id)
	}
	return copyPost(s.posts[i]), nil
}

func (s *MemoryStorage) GetPostsByIDs(ctx context.Context, ids []string) (map[string]*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	result := make(map[string]*model.Post, len(ids))
	for _, p := range s.posts {
		if _, ok := wanted[p.ID]; ok {
			result[p.ID] = copyPost(p)
		}
	}
	return result, nil
}

func (s *MemoryStorage) GetPosts(ctx context.Context, query string) ([]*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if storage.MatchPost(p, query) {
			posts = append(posts, copyPost(p))
		}
	}
	return posts, nil
}

func (s *MemoryStorage) GetPostsByAuthor(ctx context.Context, userID string) ([]*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*model.Post, 0)
	for _, p := range s.posts {
		if p.AuthorID == userID {
			posts = append(posts, copyPost(p))
		}
	}
	return posts, nil
}
