package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/bookly/internal/models"
	"github.com/pribylovaa/bookly/internal/service"
	"github.com/pribylovaa/bookly/internal/storage"
)

func TestBookCreateRequest_ToInput(t *testing.T) {
	t.Parallel()

	in, err := BookCreateRequest{Title: "Dune", Author: "Herbert", PublishedDate: "1965-08-01"}.ToInput()
	require.NoError(t, err)
	require.Equal(t, time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC), in.PublishedDate)

	_, err = BookCreateRequest{Title: "Dune", PublishedDate: "01.08.1965"}.ToInput()
	require.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestBookUpdateRequest_ToUpdate(t *testing.T) {
	t.Parallel()

	title, date := "New", "2001-02-03"
	upd, err := BookUpdateRequest{Title: &title, PublishedDate: &date}.ToUpdate()
	require.NoError(t, err)
	require.Equal(t, "New", *upd.Title)
	require.Equal(t, 2001, upd.PublishedDate.Year())
	require.Nil(t, upd.Author)

	_, err = BookUpdateRequest{}.ToUpdate()
	require.ErrorIs(t, err, service.ErrInvalidArgument)

	bad := "yesterday"
	_, err = BookUpdateRequest{PublishedDate: &bad}.ToUpdate()
	require.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestReviewUpdateRequest_ToUpdate(t *testing.T) {
	t.Parallel()

	_, err := ReviewUpdateRequest{}.ToUpdate()
	require.ErrorIs(t, err, service.ErrInvalidArgument)

	r := 4
	upd, err := ReviewUpdateRequest{Rating: &r}.ToUpdate()
	require.NoError(t, err)
	require.Equal(t, 4, *upd.Rating)
}

// Хэш пароля не должен попадать в JSON ни при каких условиях.
func TestUserDetails_NoPasswordInJSON(t *testing.T) {
	t.Parallel()

	d := &models.UserDetails{User: models.User{
		ID:           uuid.New(),
		Email:        "reader@bookly.dev",
		PasswordHash: "$2a$10$secretsecretsecret",
		Role:         models.RoleUser,
	}}

	raw, err := json.Marshal(UserDetailsFromModel(d))
	require.NoError(t, err)
	require.NotContains(t, string(raw), "secretsecret")
	require.NotContains(t, string(raw), "password")
	require.Contains(t, string(raw), `"books":[]`)
	require.Contains(t, string(raw), `"reviews":[]`)
	require.Contains(t, string(raw), `"email":"reader@bookly.dev"`)
}

func TestBookDetails_FlattensAndKeepsNullOwner(t *testing.T) {
	t.Parallel()

	b := models.Book{ID: uuid.New(), Title: "T", PublishedDate: time.Date(2020, 5, 6, 0, 0, 0, 0, time.UTC)}

	raw, err := json.Marshal(BookDetailsFromModel(&models.BookDetails{Book: b}))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	require.Equal(t, "T", m["title"])
	require.Equal(t, "2020-05-06", m["published_date"])
	require.Nil(t, m["user"])
	require.Equal(t, []any{}, m["reviews"])
}

func TestCoverPresignFromInfo(t *testing.T) {
	t.Parallel()

	out := CoverPresignFromInfo(&storage.UploadInfo{UploadURL: "u", CoverKey: "k", Expires: 10 * time.Minute})
	require.Equal(t, int64(600), out.ExpiresSeconds)
	require.NotNil(t, out.RequiredHeader)
}

func TestLoginFromResult(t *testing.T) {
	t.Parallel()

	require.Equal(t, LoginResponse{}, LoginFromResult(nil))
}
