package models

// TokenPair — пара токенов, выдаваемая при входе.
//
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — JWT с признаком refresh, предъявляется только на /auth/refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
