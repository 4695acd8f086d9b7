package models

// Records stored by the sqlite backend. Seq is the row order; ID is the
// public identifier.

type User struct {
	Seq   uint   `gorm:"primary_key"`
	ID    string `gorm:"unique_index;not null"`
	Name  string `gorm:"not null"`
	Email string `gorm:"unique_index;not null"`
	Age   *int
}

type Post struct {
	Seq       uint   `gorm:"primary_key"`
	ID        string `gorm:"unique_index;not null"`
	Title     string `gorm:"not null"`
	Body      string `gorm:"not null"`
	Published bool   `gorm:"not null"`
	AuthorID  string `gorm:"index;not null"`
}

type Comment struct {
	Seq      uint   `gorm:"primary_key"`
	ID       string `gorm:"unique_index;not null"`
	Text     string `gorm:"not null"`
	AuthorID string `gorm:"index;not null"`
	PostID   string `gorm:"index;not null"`
}
