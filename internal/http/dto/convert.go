package dto

import (
	"fmt"
	"time"

	"github.com/pribylovaa/bookly/internal/models"
	"github.com/pribylovaa/bookly/internal/service"
	"github.com/pribylovaa/bookly/internal/storage"
)

func (m SignupRequest) ToInput() service.SignupInput {
	return service.SignupInput{
		Email:     m.Email,
		Password:  m.Password,
		Username:  m.Username,
		FirstName: m.FirstName,
		LastName:  m.LastName,
	}
}

func (m BookCreateRequest) ToInput() (service.BookInput, error) {
	date, err := parseDate(m.PublishedDate)
	if err != nil {
		return service.BookInput{}, err
	}

	return service.BookInput{
		Title:         m.Title,
		Author:        m.Author,
		Publisher:     m.Publisher,
		PageCount:     m.PageCount,
		Language:      m.Language,
		PublishedDate: date,
	}, nil
}

func (m BookUpdateRequest) ToUpdate() (models.BookUpdate, error) {
	upd := models.BookUpdate{
		Title:     m.Title,
		Author:    m.Author,
		Publisher: m.Publisher,
		PageCount: m.PageCount,
		Language:  m.Language,
	}

	if m.PublishedDate != nil {
		date, err := parseDate(*m.PublishedDate)
		if err != nil {
			return models.BookUpdate{}, err
		}
		upd.PublishedDate = &date
	}

	if upd.Empty() {
		return models.BookUpdate{}, fmt.Errorf("%w: empty update", service.ErrInvalidArgument)
	}

	return upd, nil
}

func (m ReviewCreateRequest) ToInput() service.ReviewInput {
	return service.ReviewInput{Content: m.Content, Rating: m.Rating}
}

func (m ReviewUpdateRequest) ToUpdate() (models.ReviewUpdate, error) {
	if m.Content == nil && m.Rating == nil {
		return models.ReviewUpdate{}, fmt.Errorf("%w: empty update", service.ErrInvalidArgument)
	}

	return models.ReviewUpdate{Content: m.Content, Rating: m.Rating}, nil
}

func LoginFromResult(r *service.LoginResult) LoginResponse {
	if r == nil {
		return LoginResponse{}
	}

	return LoginResponse{
		AccessToken:  r.Tokens.AccessToken,
		RefreshToken: r.Tokens.RefreshToken,
		User: UserData{
			Email:  r.Subject.Email,
			UserID: r.Subject.UserID,
			Role:   r.Subject.Role,
		},
	}
}

func UserFromModel(u *models.User) *User {
	if u == nil {
		return nil
	}

	return &User{
		ID:         u.ID.String(),
		Email:      u.Email,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func UserDetailsFromModel(d *models.UserDetails) UserWithBooksAndReviews {
	if d == nil {
		return UserWithBooksAndReviews{Books: []Book{}, Reviews: []Review{}}
	}

	return UserWithBooksAndReviews{
		User:    *UserFromModel(&d.User),
		Books:   booksFromModels(d.Books),
		Reviews: reviewsFromModels(d.Reviews),
	}
}

func BookFromModel(b *models.Book) *Book {
	if b == nil {
		return nil
	}

	return &Book{
		ID:            b.ID.String(),
		Title:         b.Title,
		Author:        b.Author,
		Publisher:     b.Publisher,
		PageCount:     b.PageCount,
		Language:      b.Language,
		PublishedDate: b.PublishedDate.Format(DateLayout),
		UserID:        b.UserID.String(),
		CoverURL:      b.CoverURL,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func BookDetailsFromModel(d *models.BookDetails) BookWithUserAndReviews {
	if d == nil {
		return BookWithUserAndReviews{Reviews: []Review{}}
	}

	return BookWithUserAndReviews{
		Book:    *BookFromModel(&d.Book),
		User:    UserFromModel(d.Owner),
		Reviews: reviewsFromModels(d.Reviews),
	}
}

func BookDetailsListFromModels(in []models.BookDetails) []BookWithUserAndReviews {
	out := make([]BookWithUserAndReviews, 0, len(in))
	for i := range in {
		out = append(out, BookDetailsFromModel(&in[i]))
	}
	return out
}

func ReviewFromModel(r *models.Review) *Review {
	if r == nil {
		return nil
	}

	return &Review{
		ID:        r.ID.String(),
		Content:   r.Content,
		Rating:    r.Rating,
		UserID:    r.UserID.String(),
		BookID:    r.BookID.String(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ReviewDetailsFromModel(d *models.ReviewDetails) ReviewWithUserAndBook {
	if d == nil {
		return ReviewWithUserAndBook{}
	}

	return ReviewWithUserAndBook{
		Review: *ReviewFromModel(&d.Review),
		User:   UserFromModel(d.User),
		Book:   BookFromModel(d.Book),
	}
}

func ReviewDetailsListFromModels(in []models.ReviewDetails) []ReviewWithUserAndBook {
	out := make([]ReviewWithUserAndBook, 0, len(in))
	for i := range in {
		out = append(out, ReviewDetailsFromModel(&in[i]))
	}
	return out
}

func CoverPresignFromInfo(info *storage.UploadInfo) CoverPresignResponse {
	if info == nil {
		return CoverPresignResponse{}
	}

	headers := info.RequiredHeader
	if headers == nil {
		headers = map[string]string{}
	}

	return CoverPresignResponse{
		UploadURL:      info.UploadURL,
		CoverKey:       info.CoverKey,
		ExpiresSeconds: int64(info.Expires / time.Second),
		RequiredHeader: headers,
	}
}

func booksFromModels(in []models.Book) []Book {
	out := make([]Book, 0, len(in))
	for i := range in {
		out = append(out, *BookFromModel(&in[i]))
	}
	return out
}

func reviewsFromModels(in []models.Review) []Review {
	out := make([]Review, 0, len(in))
	for i := range in {
		out = append(out, *ReviewFromModel(&in[i]))
	}
	return out
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: published_date must be YYYY-MM-DD", service.ErrInvalidArgument)
	}
	return t, nil
}
