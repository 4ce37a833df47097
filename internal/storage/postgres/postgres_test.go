package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/bookly/internal/models"
	"github.com/pribylovaa/bookly/internal/storage"
)

// Интеграционные тесты для пакета postgres:
// — поднимают реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// — применяют миграции из ./migrations;
// — проверяют CRUD пользователей, книг и отзывов, пагинацию, каскадное
//   удаление отзывов и перевод ошибок драйвера в sentinel-ошибки storage.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1
//
// TestMapError и TestPageCount выполняются всегда (без БД).

// repoRootFromThisFile — определяет корень репозитория относительно текущего файла тестов.
func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает содержимое SQL-миграции из каталога ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(repoRootFromThisFile(), "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

func startPostgres(t *testing.T) *Storage {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "docker.io/postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	t.Logf("starting postgres container with image=%q", req.Image)
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		ProviderType:     tc.ProviderDocker,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	// Порт открывается раньше, чем postgres готов принимать запросы.
	var pool *pgxpool.Pool
	require.Eventually(t, func() bool {
		pool, err = pgxpool.New(ctx, dsn)
		if err != nil {
			return false
		}
		if pool.Ping(ctx) != nil {
			pool.Close()
			return false
		}
		return true
	}, 30*time.Second, 500*time.Millisecond)
	defer pool.Close()

	_, err = pool.Exec(ctx, readMigration(t, "1_init.up.sql"))
	require.NoError(t, err)

	st, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	return st
}

func seedUser(t *testing.T, st *Storage, email string) *models.User {
	t.Helper()

	u, err := st.SaveUser(context.Background(), &models.User{
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Username:     "reader",
		FirstName:    "Ann",
		LastName:     "Reader",
	})
	require.NoError(t, err)

	return u
}

func seedBook(t *testing.T, st *Storage, owner uuid.UUID, title string) *models.Book {
	t.Helper()

	b, err := st.SaveBook(context.Background(), &models.Book{
		Title:         title,
		Author:        "Author",
		Publisher:     "Publisher",
		PageCount:     320,
		Language:      "en",
		PublishedDate: time.Date(2020, 5, 17, 0, 0, 0, 0, time.UTC),
		UserID:        owner,
	})
	require.NoError(t, err)

	return b
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "no_rows", in: pgx.ErrNoRows, want: storage.ErrNotFound},
		{name: "unique", in: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: storage.ErrAlreadyExists},
		{name: "fk", in: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, want: storage.ErrForeignKey},
		{name: "check", in: &pgconn.PgError{Code: pgerrcode.CheckViolation}, want: storage.ErrInvalidArgument},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, mapError("op", tt.in), tt.want)
		})
	}

	other := errors.New("boom")
	err := mapError("op", other)
	require.ErrorIs(t, err, other)
	require.NotErrorIs(t, err, storage.ErrNotFound)
}

func TestPageCount(t *testing.T) {
	t.Parallel()

	got, err := pageCount(0)
	require.NoError(t, err)
	require.Zero(t, got)

	got, err = pageCount(math.MaxInt32)
	require.NoError(t, err)
	require.EqualValues(t, math.MaxInt32, got)

	for _, n := range []int{-1, math.MaxInt32 + 1, 1<<32 + 1} {
		_, err := pageCount(n)
		require.ErrorIs(t, err, storage.ErrInvalidArgument, "n=%d", n)
	}
}

func TestIntegration_Users(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	u := seedUser(t, st, "ann@example.com")
	require.NotEqual(t, uuid.Nil, u.ID)
	require.Equal(t, models.RoleUser, u.Role)
	require.False(t, u.IsVerified)
	require.WithinDuration(t, time.Now(), u.CreatedAt, 5*time.Second)

	_, err := st.SaveUser(ctx, &models.User{Email: "ann@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	got, err := st.UserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	got, err = st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", got.Email)

	_, err = st.UserByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)

	verified := true
	hash := "$2a$10$new"
	upd, err := st.UpdateUser(ctx, "ann@example.com", models.UserUpdate{IsVerified: &verified, PasswordHash: &hash})
	require.NoError(t, err)
	require.True(t, upd.IsVerified)
	require.Equal(t, hash, upd.PasswordHash)
	require.False(t, upd.UpdatedAt.Before(u.UpdatedAt))

	_, err = st.UpdateUser(ctx, "missing@example.com", models.UserUpdate{IsVerified: &verified})
	require.ErrorIs(t, err, storage.ErrNotFound)

	other := seedUser(t, st, "bob@example.com")
	users, err := st.UsersByIDs(ctx, []uuid.UUID{u.ID, other.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, users, 2)

	users, err = st.UsersByIDs(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestIntegration_Books(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	owner := seedUser(t, st, "owner@example.com")
	b1 := seedBook(t, st, owner.ID, "First")
	b2 := seedBook(t, st, owner.ID, "Second")

	require.Equal(t, time.Date(2020, 5, 17, 0, 0, 0, 0, time.UTC), b1.PublishedDate.UTC())
	require.Equal(t, 320, b1.PageCount)

	_, err := st.SaveBook(ctx, &models.Book{Title: "Orphan", PublishedDate: time.Now(), UserID: uuid.New()})
	require.ErrorIs(t, err, storage.ErrForeignKey)

	got, err := st.BookByID(ctx, b1.ID)
	require.NoError(t, err)
	require.Equal(t, "First", got.Title)

	_, err = st.BookByID(ctx, uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)

	page, err := st.ListBooks(ctx, storage.ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, b2.ID, page[0].ID, "новые книги первыми")

	page, err = st.ListBooks(ctx, storage.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, b1.ID, page[0].ID)

	byUser, err := st.ListBooksByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 2)

	byIDs, err := st.BooksByIDs(ctx, []uuid.UUID{b1.ID})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)

	title := "First, revised"
	pages := 330
	upd, err := st.UpdateBook(ctx, b1.ID, models.BookUpdate{Title: &title, PageCount: &pages})
	require.NoError(t, err)
	require.Equal(t, title, upd.Title)
	require.Equal(t, 330, upd.PageCount)
	require.Equal(t, "Author", upd.Author)

	negative := -1
	_, err = st.UpdateBook(ctx, b1.ID, models.BookUpdate{PageCount: &negative})
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = st.UpdateBook(ctx, uuid.New(), models.BookUpdate{Title: &title})
	require.ErrorIs(t, err, storage.ErrNotFound)

	covered, err := st.SetBookCover(ctx, b1.ID, "covers/x.png", "http://cdn.local/covers/x.png")
	require.NoError(t, err)
	require.Equal(t, "covers/x.png", covered.CoverKey)
	require.Equal(t, "http://cdn.local/covers/x.png", covered.CoverURL)

	require.NoError(t, st.DeleteBook(ctx, b2.ID))
	require.ErrorIs(t, st.DeleteBook(ctx, b2.ID), storage.ErrNotFound)
}

func TestIntegration_Reviews(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	author := seedUser(t, st, "critic@example.com")
	book := seedBook(t, st, author.ID, "Reviewed")

	r, err := st.SaveReview(ctx, &models.Review{UserID: author.ID, BookID: book.ID, Content: "Great", Rating: 5})
	require.NoError(t, err)
	require.Equal(t, 5, r.Rating)

	_, err = st.SaveReview(ctx, &models.Review{UserID: author.ID, BookID: uuid.New(), Content: "x", Rating: 3})
	require.ErrorIs(t, err, storage.ErrForeignKey)

	_, err = st.SaveReview(ctx, &models.Review{UserID: author.ID, BookID: book.ID, Content: "x", Rating: 6})
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	got, err := st.ReviewByID(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, "Great", got.Content)

	list, err := st.ListReviews(ctx, storage.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	byBooks, err := st.ReviewsByBooks(ctx, []uuid.UUID{book.ID})
	require.NoError(t, err)
	require.Len(t, byBooks, 1)

	byUser, err := st.ReviewsByUser(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	content := "Still great"
	upd, err := st.UpdateReview(ctx, r.ID, models.ReviewUpdate{Content: &content})
	require.NoError(t, err)
	require.Equal(t, content, upd.Content)
	require.Equal(t, 5, upd.Rating)

	// Отзывы удаляются вместе с книгой.
	require.NoError(t, st.DeleteBook(ctx, book.ID))
	_, err = st.ReviewByID(ctx, r.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.ErrorIs(t, st.DeleteReview(ctx, r.ID), storage.ErrNotFound)
}

func TestIntegration_ContextDeadline(t *testing.T) {
	st := startPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := st.UserByEmail(ctx, "any@example.com")
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
