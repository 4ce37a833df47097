package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review — отзыв пользователя на книгу.
type Review struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	BookID    uuid.UUID
	Content   string
	Rating    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewUpdate — частичное обновление отзыва.
type ReviewUpdate struct {
	Content *string
	Rating  *int
}

// ReviewDetails — отзыв вместе с автором и книгой.
type ReviewDetails struct {
	Review Review
	User   *User
	Book   *Book
}
