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

func (s *SQLiteStorage) CreateUser(ctx context.Context, input model.CreateUserInput) (*model.User, error) {
	record := &models.User{
		ID:    s.newID(),
		Name:  input.Name,
		Email: input.Email,
		Age:   input.Age,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, input.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return storage.NewConflict(storage.EntityUser, "email", input.Email)
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, wrap("could not create user", err)
	}

	return toUser(record), nil
}

func (s *SQLiteStorage) UpdateUser(ctx context.Context, id string, input model.UpdateUserInput) (*model.User, error) {
	var record models.User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &record, storage.EntityUser, id); err != nil {
			return err
		}

		if email, ok := model.Present(input.Email); ok {
			taken, err := emailTaken(tx, email, id)
			if err != nil {
				return err
			}
			if taken {
				return storage.NewConflict(storage.EntityUser, "email", email)
			}
			record.Email = email
		}
		if name, ok := model.Present(input.Name); ok {
			record.Name = name
		}
		if input.Age.IsSet() {
			record.Age = input.Age.Value()
		}

		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, wrap("could not update user", err)
	}

	return toUser(&record), nil
}

func (s *SQLiteStorage) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	var record models.User
	var postIDs []string
	var removedComments int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &record, storage.EntityUser, id); err != nil {
			return err
		}

		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}

		comments := tx.Where("author_id = ?", id)
		if len(postIDs) > 0 {
			comments = tx.Where("author_id = ? OR post_id IN (?)", id, postIDs)
		}
		res := comments.Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		removedComments = res.RowsAffected

		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
	if err != nil {
		return nil, wrap("could not delete user", err)
	}

	s.log.Debug("user deleted",
		zap.String("id", id),
		zap.Int("posts", len(postIDs)),
		zap.Int64("comments", removedComments),
	)

	return toUser(&record), nil
}

func (s *SQLiteStorage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var record models.User
	if err := findByID(s.db, &record, storage.EntityUser, id); err != nil {
		return nil, wrap("could not get user by id", err)
	}
	return toUser(&record), nil
}

func (s *SQLiteStorage) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	result := make(map[string]*model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var records []models.User
	if err := s.db.Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("could not get users: %w", err)
	}
	for i := range records {
		result[records[i].ID] = toUser(&records[i])
	}
	return result, nil
}

func (s *SQLiteStorage) GetUsers(ctx context.Context, query string) ([]*model.User, error) {
	var records []models.User
	if err := s.db.Order("seq").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("could not get users: %w", err)
	}

	users := make([]*model.User, 0, len(records))
	for i := range records {
		u := toUser(&records[i])
		if storage.MatchUser(u, query) {
			users = append(users, u)
		}
	}
	return users, nil
}

func emailTaken(tx *gorm.DB, email, exceptID string) (bool, error) {
	var count int
	err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
