package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codemastery/codemastery-api/application/port/outbound"
	domainerr "github.com/codemastery/codemastery-api/domain/error"
	"github.com/codemastery/codemastery-api/domain/valueobject"
)

// Verifier checks a token in a fixed order: shape and signature, subject,
// type, then expiry against the injected clock. The first failing check wins.
type Verifier struct {
	codec *Codec
	clock outbound.Clock
}

var _ outbound.TokenVerifier = (*Verifier)(nil)

func NewVerifier(codec *Codec, clock outbound.Clock) *Verifier {
	return &Verifier{codec: codec, clock: clock}
}

func (v *Verifier) Verify(token string, expected valueobject.TokenType) (string, error) {
	claims, err := v.codec.Decode(token)
	if err != nil {
		return "", asMalformed(err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return "", domainerr.ErrTokenMissingSubject
	}

	if claims.Type != expected {
		return "", domainerr.TokenWrongType(expected.String(), claims.Type.String())
	}

	// A token is still valid at the exact second it expires.
	now := v.clock.Now()
	if now.After(claims.ExpiresAt) {
		return "", domainerr.TokenExpired(fmt.Sprintf("expired at %s", claims.ExpiresAt.Format(time.RFC3339)))
	}

	return claims.Subject, nil
}

// asMalformed folds every decode failure into Malformed. A signature failure
// keeps its own code underneath so Reason can still tell it apart.
func asMalformed(err error) error {
	var appErr *domainerr.AppError
	if errors.As(err, &appErr) && appErr.Code == domainerr.ErrCodeTokenMalformed {
		return err
	}
	return domainerr.TokenMalformed(err)
}
