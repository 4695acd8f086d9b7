package sqlite

import (
	"fmt"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/models"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"go.uber.org/zap"
)

var _ storage.Storage = (*SQLiteStorage)(nil)

// SQLiteStorage keeps records in an in-memory SQLite database through gorm.
// The pool is limited to one connection: every connection to ":memory:" is a
// separate database, and a single connection also serializes transactions.
type SQLiteStorage struct {
	db    *gorm.DB
	log   *zap.Logger
	newID func() string
}

// Open creates an empty in-memory database and migrates the schema.
func Open(log *zap.Logger, debug bool) (*SQLiteStorage, error) {
	db, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	return NewWithConnection(db, log, debug)
}

// NewWithConnection wraps an already opened gorm connection.
func NewWithConnection(db *gorm.DB, log *zap.Logger, debug bool) (*SQLiteStorage, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("sqlite")

	db.DB().SetMaxOpenConns(1)
	db.SetLogger(gormLogger{log: log.Sugar()})
	db.LogMode(debug)

	err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}).Error
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStorage{db: db, log: log, newID: uuid.NewString}, nil
}

func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}
	return nil
}

// gormLogger forwards gorm's SQL log lines to zap at debug level.
type gormLogger struct {
	log *zap.SugaredLogger
}

func (l gormLogger) Print(v ...interface{}) {
	l.log.Debug(v...)
}

func toUser(u *models.User) *model.User {
	return &model.User{ID: u.ID, Name: u.Name, Email: u.Email, Age: u.Age}
}

func toPost(p *models.Post) *model.Post {
	return &model.Post{ID: p.ID, Title: p.Title, Body: p.Body, Published: p.Published, AuthorID: p.AuthorID}
}

func toComment(c *models.Comment) *model.Comment {
	return &model.Comment{ID: c.ID, Text: c.Text, AuthorID: c.AuthorID, PostID: c.PostID}
}

// exists reports whether a record of the given model has the id.
func exists(tx *gorm.DB, record interface{}, id string) (bool, error) {
	var count int
	if err := tx.Model(record).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
