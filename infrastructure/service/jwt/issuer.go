package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codemastery/codemastery-api/application/port/outbound"
	"github.com/codemastery/codemastery-api/domain/valueobject"
	"github.com/codemastery/codemastery-api/infrastructure/config"
)

var ErrEmptySubject = errors.New("cannot issue a token without a subject")

// Issuer mints access and refresh tokens. Each call reads the clock exactly once.
type Issuer struct {
	codec      *Codec
	clock      outbound.Clock
	accessTTL  time.Duration
	refreshTTL time.Duration
}

var _ outbound.TokenIssuer = (*Issuer)(nil)

func NewIssuer(codec *Codec, clock outbound.Clock, cfg config.TokenConfig) *Issuer {
	return &Issuer{
		codec:      codec,
		clock:      clock,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}
}

func (i *Issuer) IssueAccessToken(subject string) (string, error) {
	return i.issue(subject, valueobject.TokenTypeAccess, i.clock.Now())
}

func (i *Issuer) IssueRefreshToken(subject string) (string, error) {
	return i.issue(subject, valueobject.TokenTypeRefresh, i.clock.Now())
}

// IssuePair stamps both tokens from the same clock reading.
func (i *Issuer) IssuePair(subject string) (*valueobject.TokenPair, error) {
	now := i.clock.Now()

	accessToken, err := i.issue(subject, valueobject.TokenTypeAccess, now)
	if err != nil {
		return nil, err
	}

	refreshToken, err := i.issue(subject, valueobject.TokenTypeRefresh, now)
	if err != nil {
		return nil, err
	}

	return valueobject.NewTokenPair(accessToken, refreshToken, i.accessTTL), nil
}

func (i *Issuer) issue(subject string, tokenType valueobject.TokenType, now time.Time) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", ErrEmptySubject
	}

	issuedAt := now.UTC().Truncate(time.Second)
	claims := valueobject.TokenClaims{
		Subject:   subject,
		Type:      tokenType,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(i.ttl(tokenType)),
	}

	token, err := i.codec.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("issue %s token: %w", tokenType, err)
	}
	return token, nil
}

func (i *Issuer) ttl(tokenType valueobject.TokenType) time.Duration {
	if tokenType == valueobject.TokenTypeRefresh {
		return i.refreshTTL
	}
	return i.accessTTL
}
