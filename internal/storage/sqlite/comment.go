package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/models"
	"github.com/jinzhu/gorm"
)

func (s *SQLiteStorage) CreateComment(ctx context.Context, input model.CreateCommentInput) (*model.Comment, error) {
	record := &models.Comment{
		ID:       s.newID(),
		Text:     input.Text,
		AuthorID: input.Author,
		PostID:   input.Post,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		userOK, err := exists(tx, &models.User{}, input.Author)
		if err != nil {
			return err
		}
		postOK, err := exists(tx, &models.Post{}, input.Post)
		if err != nil {
			return err
		}
		if !userOK {
			return storage.NewNotFound(storage.EntityUser, input.Author)
		}
		if !postOK {
			return storage.NewNotFound(storage.EntityPost, input.Post)
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, wrap("could not create comment", err)
	}

	return toComment(record), nil
}

func (s *SQLiteStorage) UpdateComment(ctx context.Context, id string, input model.UpdateCommentInput) (*model.Comment, error) {
	var record models.Comment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &record, storage.EntityComment, id); err != nil {
			return err
		}
		if text, ok := model.Present(input.Text); ok {
			record.Text = text
		}
		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, wrap("could not update comment", err)
	}

	return toComment(&record), nil
}

func (s *SQLiteStorage) DeleteComment(ctx context.Context, id string) (*model.Comment, error) {
	var record models.Comment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &record, storage.EntityComment, id); err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
	if err != nil {
		return nil, wrap("could not delete comment", err)
	}

	return toComment(&record), nil
}

func (s *SQLiteStorage) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	var record models.Comment
	if err := findByID(s.db, &record, storage.EntityComment, id); err != nil {
		return nil, wrap("could not get comment by id", err)
	}
	return toComment(&record), nil
}

func (s *SQLiteStorage) GetComments(ctx context.Context) ([]*model.Comment, error) {
	return s.findComments(s.db)
}

func (s *SQLiteStorage) GetCommentsByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	return s.findComments(s.db.Where("post_id = ?", postID))
}

func (s *SQLiteStorage) GetCommentsByAuthor(ctx context.Context, userID string) ([]*model.Comment, error) {
	return s.findComments(s.db.Where("author_id = ?", userID))
}

func (s *SQLiteStorage) findComments(query *gorm.DB) ([]*model.Comment, error) {
	var records []models.Comment
	if err := query.Order("seq").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("could not get comments: %w", err)
	}

	comments := make([]*model.Comment, 0, len(records))
	for i := range records {
		comments = append(comments, toComment(&records[i]))
	}
	return comments, nil
}

// findByID loads the record with the public id into dest, translating a
// missing row into a NotFoundError.
func findByID(tx *gorm.DB, dest interface{}, entity, id string) error {
	err := tx.Where("id = ?", id).First(dest).Error
	if gorm.IsRecordNotFoundError(err) {
		return storage.NewNotFound(entity, id)
	}
	return err
}

// wrap adds context to backend failures and leaves domain errors as they are.
func wrap(msg string, err error) error {
	var notFound *storage.NotFoundError
	var conflict *storage.ConflictError
	if errors.As(err, &notFound) || errors.As(err, &conflict) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
