package models

import (
	"time"

	"github.com/google/uuid"
)

// Book — книга, добавленная пользователем.
// PublishedDate хранит только дату (время всегда 00:00 UTC).
type Book struct {
	ID            uuid.UUID
	Title         string
	Author        string
	Publisher     string
	PageCount     int
	Language      string
	PublishedDate time.Time
	UserID        uuid.UUID
	CoverKey      string
	CoverURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BookUpdate — частичное обновление книги (nil — поле не меняется).
type BookUpdate struct {
	Title         *string
	Author        *string
	Publisher     *string
	PageCount     *int
	Language      *string
	PublishedDate *time.Time
}

// Empty сообщает, что обновление не меняет ни одного поля.
func (u BookUpdate) Empty() bool {
	return u.Title == nil && u.Author == nil && u.Publisher == nil &&
		u.PageCount == nil && u.Language == nil && u.PublishedDate == nil
}

// BookDetails — книга с владельцем и отзывами.
// Owner может быть nil, если владелец удалён.
type BookDetails struct {
	Book    Book
	Owner   *User
	Reviews []Review
}
