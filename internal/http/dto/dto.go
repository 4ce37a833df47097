// Входные/выходные модели REST API bookly.
// Хэш пароля в ответы не попадает ни в одной модели.
package dto

import "time"

// DateLayout — формат published_date в запросах и ответах.
const DateLayout = time.DateOnly

type MessageResponse struct {
	Message string `json:"message"`
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserData — содержимое claim "user" сессионного токена.
type UserData struct {
	Email  string `json:"email"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type LoginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         UserData `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirm struct {
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// Публичное представление пользователя.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type UserWithBooksAndReviews struct {
	User
	Books   []Book   `json:"books"`
	Reviews []Review `json:"reviews"`
}

type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Publisher     string    `json:"publisher"`
	PageCount     int       `json:"page_count"`
	Language      string    `json:"language"`
	PublishedDate string    `json:"published_date"`
	UserID        string    `json:"user_id"`
	CoverURL      string    `json:"cover_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookWithUserAndReviews — книга с владельцем; user == null, если владелец удалён.
type BookWithUserAndReviews struct {
	Book
	User    *User    `json:"user"`
	Reviews []Review `json:"reviews"`
}

type BookCreateRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Publisher     string `json:"publisher"`
	PageCount     int    `json:"page_count"`
	Language      string `json:"language"`
	PublishedDate string `json:"published_date"`
}

// BookUpdateRequest — частичное обновление: отсутствующее поле не меняется.
type BookUpdateRequest struct {
	Title         *string `json:"title,omitempty"`
	Author        *string `json:"author,omitempty"`
	Publisher     *string `json:"publisher,omitempty"`
	PageCount     *int    `json:"page_count,omitempty"`
	Language      *string `json:"language,omitempty"`
	PublishedDate *string `json:"published_date,omitempty"`
}

// Пресайн на загрузку обложки.
type CoverPresignRequest struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
}

type CoverPresignResponse struct {
	UploadURL      string            `json:"upload_url"`
	CoverKey       string            `json:"cover_key"`
	ExpiresSeconds int64             `json:"expires_seconds"`
	RequiredHeader map[string]string `json:"required_headers"`
}

type CoverConfirmRequest struct {
	CoverKey string `json:"cover_key"`
}

type Review struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewWithUserAndBook struct {
	Review
	User *User `json:"user"`
	Book *Book `json:"book"`
}

type ReviewCreateRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

type ReviewUpdateRequest struct {
	Content *string `json:"content,omitempty"`
	Rating  *int    `json:"rating,omitempty"`
}
