package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListOptions_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   ListOptions
		want ListOptions
	}{
		{name: "zero", in: ListOptions{}, want: ListOptions{Limit: DefaultListLimit}},
		{name: "negative", in: ListOptions{Limit: -1, Offset: -5}, want: ListOptions{Limit: DefaultListLimit}},
		{name: "too_big", in: ListOptions{Limit: 1000, Offset: 10}, want: ListOptions{Limit: MaxListLimit, Offset: 10}},
		{name: "ok", in: ListOptions{Limit: 20, Offset: 40}, want: ListOptions{Limit: 20, Offset: 40}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}
