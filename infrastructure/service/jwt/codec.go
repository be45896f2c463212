package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	domainerr "github.com/codemastery/codemastery-api/domain/error"
	"github.com/codemastery/codemastery-api/domain/valueobject"
)

var (
	ErrEmptySecret      = errors.New("jwt: signing secret must not be empty")
	errMissingTimeClaim = errors.New("token is missing iat or exp")
)

// tokenClaims is the wire shape: {"sub","type","iat","exp"} with integer Unix seconds.
type tokenClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// Codec signs and parses HS256 tokens. It checks signature and shape only;
// time-based validity is the verifier's job.
type Codec struct {
	secret []byte
	parser *jwt.Parser
}

func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)

	return &Codec{
		secret: key,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

func (c *Codec) Encode(claims valueobject.TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Type: string(claims.Type),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", claims.Type, err)
	}

	return tokenString, nil
}

func (c *Codec) Decode(tokenString string) (valueobject.TokenClaims, error) {
	var claims tokenClaims
	_, err := c.parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return valueobject.TokenClaims{}, c.handleParseError(err)
	}

	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return valueobject.TokenClaims{}, domainerr.TokenMalformed(errMissingTimeClaim)
	}

	return valueobject.TokenClaims{
		Subject:   claims.Subject,
		Type:      valueobject.TokenType(claims.Type),
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

func (c *Codec) handleParseError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return domainerr.TokenInvalidSignature(err)
	}
	return domainerr.TokenMalformed(err)
}

// Inspection is what a token claims about itself, read without checking the signature.
type Inspection struct {
	Algorithm string
	Claims    valueobject.TokenClaims
}

// Inspect reads header and claims without verifying the signature. Never
// use it to authenticate; it exists for debugging tools.
func Inspect(tokenString string) (Inspection, error) {
	var claims tokenClaims
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims)
	if err != nil {
		return Inspection{}, domainerr.TokenMalformed(err)
	}

	out := Inspection{
		Claims: valueobject.TokenClaims{
			Subject: claims.Subject,
			Type:    valueobject.TokenType(claims.Type),
		},
	}
	if alg, ok := token.Header["alg"].(string); ok {
		out.Algorithm = alg
	}
	if claims.IssuedAt != nil {
		out.Claims.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		out.Claims.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}
