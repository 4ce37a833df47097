package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorize_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      Identity
		allowed []string
		wantErr error
	}{
		{name: "verified_allowed", id: Identity{Role: "user", Verified: true}, allowed: []string{"admin", "user"}},
		{name: "verified_wrong_role", id: Identity{Role: "user", Verified: true}, allowed: []string{"admin"}, wantErr: ErrNotAuthorized},
		{name: "not_verified_wins_over_role", id: Identity{Role: "user", Verified: false}, allowed: []string{"admin"}, wantErr: ErrNotVerified},
		{name: "not_verified_allowed_role", id: Identity{Role: "admin", Verified: false}, allowed: []string{"admin"}, wantErr: ErrNotVerified},
		{name: "empty_allow_list", id: Identity{Role: "admin", Verified: true}, wantErr: ErrNotAuthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Authorize(tt.id, tt.allowed...)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRoleGate_CopiesAllowList(t *testing.T) {
	t.Parallel()

	roles := []string{"admin", "user"}
	g := NewRoleGate(roles...)
	roles[1] = "nobody"

	require.NoError(t, g.Check(Identity{Role: "user", Verified: true}))

	got := g.Allowed()
	got[0] = "changed"
	require.Equal(t, []string{"admin", "user"}, g.Allowed())
}
