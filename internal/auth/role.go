package auth

import (
	"fmt"
	"slices"
)

// Identity — то, что нужно ролевому гейту: роль и признак подтверждения.
type Identity struct {
	Role     string
	Verified bool
}

// RoleGate — проверка после аутентификации по allow-list ролей.
type RoleGate struct {
	allowed []string
}

// NewRoleGate создаёт гейт. Пустой allow-list не пропускает никого.
func NewRoleGate(roles ...string) RoleGate {
	return RoleGate{allowed: slices.Clone(roles)}
}

// Allowed возвращает копию allow-list.
func (g RoleGate) Allowed() []string { return slices.Clone(g.allowed) }

// Check: сначала подтверждение учётной записи, затем роль.
func (g RoleGate) Check(id Identity) error {
	return Authorize(id, g.allowed...)
}

// Authorize — чистая проверка без побочных эффектов.
func Authorize(id Identity, allowed ...string) error {
	const op = "auth.role.Authorize"

	if !id.Verified {
		return fmt.Errorf("%s: %w", op, ErrNotVerified)
	}

	if !slices.Contains(allowed, id.Role) {
		return fmt.Errorf("%s: %w", op, ErrNotAuthorized)
	}

	return nil
}
