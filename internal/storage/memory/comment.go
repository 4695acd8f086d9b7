package memory

import (
	"context"
	"slices"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/storage"
)

func (s *MemoryStorage) CreateComment(ctx context.Context, input model.CreateCommentInput) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// author is reported first when both references are missing
	if s.userIndex(input.Author) == -1 {
		return nil, storage.NewNotFound(storage.EntityUser, input.Author)
	}
	if s.postIndex(input.Post) == -1 {
		return nil, storage.NewNotFound(storage.EntityPost, input.Post)
	}

	comment := &model.Comment{
		ID:       s.newID(),
		Text:     input.Text,
		AuthorID: input.Author,
		PostID:   input.Post,
	}

	s.comments = append(s.comments, comment)
	return copyComment(comment), nil
}

func (s *MemoryStorage) UpdateComment(ctx context.Context, id string, input model.UpdateCommentInput) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.commentIndex(id)
	if i == -1 {
		return nil, storage.NewNotFound(storage.EntityComment, id)
	}

	comment := s.comments[i]
	if text, ok := model.Present(input.Text); ok {
		comment.Text = text
	}
	return copyComment(comment), nil
}

func (s *MemoryStorage) DeleteComment(ctx context.Context, id string) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.commentIndex(id)
	if i == -1 {
		return nil, storage.NewNotFound(storage.EntityComment, id)
	}
	deleted := s.comments[i]
	s.comments = slices.Delete(s.comments, i, i+1)
	return deleted, nil
}

func (s *MemoryStorage) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.commentIndex(id)
	if i == -1 {
		return nil, storage.NewNotFound(storage.EntityComment, id)
	}
	return copyComment(s.comments[i]), nil
}

func (s *MemoryStorage) GetComments(ctx context.Context) ([]*model.Comment, error) {
	return s.filterComments(func(*model.Comment) bool { return true }), nil
}

func (s *MemoryStorage) GetCommentsByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	return s.filterComments(func(c *model.Comment) bool { return c.PostID == postID }), nil
}

func (s *MemoryStorage) GetCommentsByAuthor(ctx context.Context, userID string) ([]*model.Comment, error) {
	return s.filterComments(func(c *model.Comment) bool { return c.AuthorID == userID }), nil
}

func (s *MemoryStorage) filterComments(keep func(*model.Comment) bool) []*model.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]*model.Comment, 0, len(s.comments))
	for _, c := range s.comments {
		if keep(c) {
			comments = append(comments, copyComment(c))
		}
	}
	return comments
}
