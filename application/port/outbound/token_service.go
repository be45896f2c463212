package outbound

import "github.com/codemastery/codemastery-api/domain/valueobject"

type TokenIssuer interface {
	IssueAccessToken(subject string) (string, error)
	IssueRefreshToken(subject string) (string, error)
	IssuePair(subject string) (*valueobject.TokenPair, error)
}

// TokenVerifier returns the token subject, or a domain error naming the failed check.
type TokenVerifier interface {
	Verify(token string, expected valueobject.TokenType) (string, error)
}
