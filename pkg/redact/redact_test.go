package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Покрытие (табличные тесты):
//   - Email: валидный адрес, короткая локальная часть, невалидный формат, Unicode;
//   - TokenID: короткие и длинные идентификаторы;
//   - Path: маскирование сегмента после маркера, отсутствие маркера, хвостовой маркер.

func TestEmail_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii_local_gt_2", in: "reader@bookly.dev", want: "re***@bookly.dev"},
		{name: "ascii_local_len_2", in: "ab@ex.com", want: "***@ex.com"},
		{name: "no_at", in: "reader", want: "***"},
		{name: "multiple_at", in: "a@b@c", want: "***"},
		{name: "empty", in: "", want: "***"},
		{name: "unicode_local", in: "читатель@книги.рф", want: "чи***@книги.рф"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Email(tt.in))
		})
	}
}

func TestLiterals_TokenAndPassword(t *testing.T) {
	t.Parallel()

	require.Equal(t, "[REDACTED_TOKEN]", Token())
	require.Equal(t, "[REDACTED_PASSWORD]", Password())
}

func TestTokenID(t *testing.T) {
	t.Parallel()

	require.Equal(t, "abc", TokenID("abc"))
	require.Equal(t, "12345678", TokenID("12345678"))
	require.Equal(t, "0123abcd…", TokenID("0123abcd-ffff-eeee"))
}

func TestPath_Table(t *testing.T) {
	t.Parallel()

	markers := []string{"verify", "password-reset"}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "verify", in: "/api/v1/auth/verify/abc.def.ghi", want: "/api/v1/auth/verify/[REDACTED_TOKEN]"},
		{name: "reset", in: "/api/v1/auth/password-reset/tok", want: "/api/v1/auth/password-reset/[REDACTED_TOKEN]"},
		{name: "no_marker", in: "/api/v1/books/42", want: "/api/v1/books/42"},
		{name: "trailing_marker", in: "/api/v1/auth/verify/", want: "/api/v1/auth/verify/"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Path(tt.in, markers...))
		})
	}
}
