package valueobject

import "time"

// TokenType distinguishes access tokens from refresh tokens. A token of one
// type is never accepted where the other is expected.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

func (t TokenType) String() string {
	return string(t)
}

func (t TokenType) Valid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// TokenClaims is the signed payload of a token. Timestamps travel as Unix
// seconds, so values round-trip at second precision in UTC.
type TokenClaims struct {
	Subject   string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}
