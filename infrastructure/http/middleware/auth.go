package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/codemastery/codemastery-api/application/port/outbound"
	"github.com/codemastery/codemastery-api/domain/entity"
	domainerr "github.com/codemastery/codemastery-api/domain/error"
	"github.com/codemastery/codemastery-api/domain/valueobject"
	"github.com/codemastery/codemastery-api/infrastructure/http/response"
	"github.com/codemastery/codemastery-api/infrastructure/service/logger"
	"github.com/codemastery/codemastery-api/infrastructure/service/metrics"
)

type principalKey struct{}

// PrincipalStore resolves a verified subject (the user's email) to a user record.
type PrincipalStore interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// AuthGuard authenticates bearer tokens. Every verification failure reaches
// the client as the same 401; the granular reason goes to logs and metrics only.
type AuthGuard struct {
	verifier outbound.TokenVerifier
	users    PrincipalStore
	logger   logger.Logger
	metrics  metrics.Recorder
}

func NewAuthGuard(verifier outbound.TokenVerifier, users PrincipalStore, log logger.Logger, recorder metrics.Recorder) *AuthGuard {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &AuthGuard{
		verifier: verifier,
		users:    users,
		logger:   log,
		metrics:  recorder,
	}
}

// Authenticate resolves the request's bearer token to a principal. A missing
// or empty token is rejected before the verifier runs.
func (g *AuthGuard) Authenticate(r *http.Request, expected valueobject.TokenType) (*entity.User, error) {
	token, err := BearerToken(r)
	if err != nil {
		return nil, err
	}

	subject, err := g.verifier.Verify(token, expected)
	if err != nil {
		return nil, err
	}

	user, err := g.users.FindByEmail(r.Context(), subject)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return nil, domainerr.PrincipalNotFound(subject)
		}
		return nil, domainerr.ErrDatabaseError("find principal", err)
	}
	return user, nil
}

func (g *AuthGuard) RequireAccess(next http.Handler) http.Handler {
	return g.require(valueobject.TokenTypeAccess, next)
}

// RequireRefresh protects the token refresh operation only.
func (g *AuthGuard) RequireRefresh(next http.Handler) http.Handler {
	return g.require(valueobject.TokenTypeRefresh, next)
}

func (g *AuthGuard) require(expected valueobject.TokenType, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, err := g.Authenticate(r, expected)
		if err != nil {
			reason := domainerr.Reason(err)
			g.metrics.TokenVerified(expected.String(), reason)

			fields := map[string]interface{}{
				"token_type": expected.String(),
				"reason":     reason,
				"path":       r.URL.Path,
			}
			if domainerr.GetHTTPStatusCode(err) == http.StatusServiceUnavailable {
				g.logger.Error(ctx, "Principal lookup failed", err, fields)
			} else {
				logger.LogAuthEvent(ctx, g.logger, "authenticate", "", ClientIP(r), false, fields)
			}

			response.FromError(w, err)
			return
		}

		g.metrics.TokenVerified(expected.String(), "ok")
		g.logger.Debug(ctx, "Request authenticated", map[string]interface{}{
			"token_type": expected.String(),
			"user_id":    user.ID,
		})

		next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, user)))
	})
}

// BearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", domainerr.ErrMissingBearerToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", domainerr.ErrMissingBearerToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", domainerr.ErrMissingBearerToken
	}
	return token, nil
}

func WithPrincipal(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, principalKey{}, user)
}

// GetPrincipal returns the user placed on ctx by the guard, or nil.
func GetPrincipal(ctx context.Context) *entity.User {
	user, _ := ctx.Value(principalKey{}).(*entity.User)
	return user
}
