// models содержит доменные сущности bookly.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role — роль пользователя, проверяемая ролевым гейтом.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User — учётная запись читателя.
// PasswordHash никогда не покидает сервисный слой.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Username     string
	FirstName    string
	LastName     string
	Role         Role
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate — частичное обновление пользователя (nil — поле не меняется).
type UserUpdate struct {
	PasswordHash *string
	IsVerified   *bool
}

// UserDetails — пользователь вместе с его книгами и отзывами.
type UserDetails struct {
	User    User
	Books   []Book
	Reviews []Review
}
