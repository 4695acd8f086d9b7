package sqlite

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/models"
	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
)

func (s *SQLiteStorage) CreatePost(ctx context.Context, input model.CreatePostInput) (*model.Post, error) {
	record := &models.Post{
		ID:        s.newID(),
		Title:     input.Title,
		Body:      input.Body,
		Published: input.Published,
		AuthorID:  input.Author,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.User{}, input.Author)
		if err != nil {
			return err
		}
		if !ok {
			return storage.NewNotFound(storage.EntityUser, input.Author)
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, wrap("could not create post", err)
	}

	return toPost(record), nil
}

func (s *SQLiteStorage) UpdatePost(ctx context.Context, id string, input model.UpdatePostInput) (*model.Post, error) {
	var record models.Post

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &record, storage.EntityPost, id); err != nil {
			return err
		}
		if title, ok := model.Present(input.Title); ok {
			record.Title = title
		}
		if body, ok := model.Present(input.Body); ok {
			record.Body = body
		}
		if published, ok := model.Present(input.Published); ok {
			record.Published = published
		}
		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, wrap("could not update post", err)
	}

	return toPost(&record), nil
}

func (s *SQLiteStorage) DeletePost(ctx context.Context, id string) (*model.Post, error) {
	var record models.Post
	var removedComments int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &record, storage.EntityPost, id); err != nil {
			return err
		}
		res := tx.Where("post_id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		removedComments = res.RowsAffected
		return tx.Delete(&record).Error
	})
	if err != nil {
		return nil, wrap("could not delete post", err)
	}

	s.log.Debug("post deleted", zap.String("id", id), zap.Int64("comments", removedComments))

	return toPost(&record), nil
}

func (s *SQLiteStorage) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	var record models.Post
	if err := findByID(s.db, &record, storage.EntityPost, id); err != nil {
		return nil, wrap("could not get post by id", err)
	}
	return toPost(&record), nil
}

func (s *SQLiteStorage) GetPostsByIDs(ctx context.Context, ids []string) (map[string]*model.Post, error) {
	result := make(map[string]*model.Post, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var records []models.Post
	if err := s.db.Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}
	for i := range records {
		result[records[i].ID] = toPost(&records[i])
	}
	return result, nil
}

func (s *SQLiteStorage) GetPosts(ctx context.Context, query string) ([]*model.Post, error) {
	var records []models.Post
	if err := s.db.Order("seq").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}

	posts := make([]*model.Post, 0, len(records))
	for i := range records {
		p := toPost(&records[i])
		if storage.MatchPost(p, query) {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (s *SQLiteStorage) GetPostsByAuthor(ctx context.Context, userID string) ([]*model.Post, error) {
	var records []models.Post
	if err := s.db.Where("author_id = ?", userID).Order("seq").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}

	posts := make([]*model.Post, 0, len(records))
	for i := range records {
		posts = append(posts, toPost(&records[i]))
	}
	return posts, nil
}
