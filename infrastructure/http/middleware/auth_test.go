package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/codemastery/codemastery-api/application/port/outbound"
	"github.com/codemastery/codemastery-api/domain/entity"
	domainerr "github.com/codemastery/codemastery-api/domain/error"
	"github.com/codemastery/codemastery-api/domain/valueobject"
	"github.com/codemastery/codemastery-api/infrastructure/config"
	"github.com/codemastery/codemastery-api/infrastructure/http/response"
	"github.com/codemastery/codemastery-api/infrastructure/service/clock"
	"github.com/codemastery/codemastery-api/infrastructure/service/jwt"
	"github.com/codemastery/codemastery-api/infrastructure/service/logger"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(token string, expected valueobject.TokenType) (string, error) {
	args := m.Called(token, expected)
	return args.String(0), args.Error(1)
}

type mockPrincipalStore struct {
	mock.Mock
}

func (m *mockPrincipalStore) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type recordedMetric struct {
	tokenType string
	outcome   string
}

type fakeRecorder struct {
	verified []recordedMetric
}

func (f *fakeRecorder) TokenVerified(tokenType, outcome string) {
	f.verified = append(f.verified, recordedMetric{tokenType, outcome})
}
func (f *fakeRecorder) LoginAttempt(string) {}
func (f *fakeRecorder) TokensIssued(string) {}

func okHandler(t *testing.T, wantID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := GetPrincipal(r.Context())
		require.NotNil(t, principal)
		assert.Equal(t, wantID, principal.ID)
		w.WriteHeader(http.StatusOK)
	})
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Message
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"standard", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc", "abc", false},
		{"mixed case scheme", "BeArEr abc", "abc", false},
		{"extra spaces", "Bearer    abc  ", "abc", false},
		{"missing", "", "", true},
		{"scheme only", "Bearer", "", true},
		{"empty token", "Bearer   ", "", true},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", true},
		{"no scheme", "abc.def.ghi", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			got, err := BearerToken(r)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainerr.ErrMissingBearerToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthGuard_MissingTokenSkipsVerifier(t *testing.T) {
	verifier := new(mockVerifier)
	users := new(mockPrincipalStore)
	recorder := &fakeRecorder{}
	guard := NewAuthGuard(verifier, users, logger.NewNopLogger(), recorder)

	for _, header := range []string{"", "Bearer ", "Token abc"} {
		r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		guard.RequireAccess(okHandler(t, "")).ServeHTTP(rec, r)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		assert.Equal(t, response.MsgCouldNotValidate, decodeMessage(t, rec))
	}

	verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	require.Len(t, recorder.verified, 3)
	assert.Equal(t, recordedMetric{"access", "missing_bearer"}, recorder.verified[0])
}

func TestAuthGuard_UniformRejection(t *testing.T) {
	failures := []error{
		domainerr.TokenMalformed(errors.New("bad segments")),
		domainerr.TokenMalformed(domainerr.TokenInvalidSignature(errors.New("sig"))),
		domainerr.ErrTokenMissingSubject,
		domainerr.TokenWrongType("access", "refresh"),
		domainerr.TokenExpired("expired at T"),
	}

	var bodies []string
	for _, failure := range failures {
		verifier := new(mockVerifier)
		users := new(mockPrincipalStore)
		verifier.On("Verify", "tok", valueobject.TokenTypeAccess).Return("", failure)

		guard := NewAuthGuard(verifier, users, logger.NewNopLogger(), nil)
		r := httptest.NewRequest(http.MethodGet, "/courses", nil)
		r.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()

		guard.RequireAccess(okHandler(t, "")).ServeHTTP(rec, r)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		bodies = append(bodies, rec.Body.String())
		users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
		verifier.AssertExpectations(t)
	}

	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body)
	}
}

func TestAuthGuard_RecordsGranularReason(t *testing.T) {
	verifier := new(mockVerifier)
	verifier.On("Verify", "tok", valueobject.TokenTypeRefresh).Return("", domainerr.TokenWrongType("refresh", "access"))
	recorder := &fakeRecorder{}

	guard := NewAuthGuard(verifier, new(mockPrincipalStore), logger.NewNopLogger(), recorder)
	r := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	r.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()

	guard.RequireRefresh(okHandler(t, "")).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "type")
	require.Len(t, recorder.verified, 1)
	assert.Equal(t, recordedMetric{"refresh", "wrong_token_type"}, recorder.verified[0])
}

func TestAuthGuard_PrincipalNotFound(t *testing.T) {
	verifier := new(mockVerifier)
	users := new(mockPrincipalStore)
	verifier.On("Verify", "tok", valueobject.TokenTypeAccess).Return("gone", nil)
	users.On("FindByEmail", mock.Anything, "gone").Return(nil, outbound.ErrUserNotFound)

	guard := NewAuthGuard(verifier, users, logger.NewNopLogger(), nil)
	r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	r.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()

	guard.RequireAccess(okHandler(t, "")).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, response.MsgUserNotFound, decodeMessage(t, rec))
	users.AssertExpectations(t)
}

func TestAuthGuard_LookupFailure(t *testing.T) {
	verifier := new(mockVerifier)
	users := new(mockPrincipalStore)
	verifier.On("Verify", "tok", valueobject.TokenTypeAccess).Return("u1", nil)
	users.On("FindByEmail", mock.Anything, "u1").Return(nil, errors.New("connection refused"))

	guard := NewAuthGuard(verifier, users, logger.NewNopLogger(), nil)
	r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	r.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()

	guard.RequireAccess(okHandler(t, "")).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthGuard_Success(t *testing.T) {
	verifier := new(mockVerifier)
	users := new(mockPrincipalStore)
	user := &entity.User{ID: "u1", Email: "u1@example.com"}
	verifier.On("Verify", "tok", valueobject.TokenTypeAccess).Return("u1", nil)
	users.On("FindByEmail", mock.Anything, "u1").Return(user, nil)
	recorder := &fakeRecorder{}

	guard := NewAuthGuard(verifier, users, logger.NewNopLogger(), recorder)
	r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	r.Header.Set("Authorization", "bearer tok")
	rec := httptest.NewRecorder()

	guard.RequireAccess(okHandler(t, "u1")).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []recordedMetric{{"access", "ok"}}, recorder.verified)
}

// Issues real tokens and runs them through both guard flavours.
func TestAuthGuard_WithRealTokens(t *testing.T) {
	t0 := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(t0)
	codec, err := jwt.NewCodec([]byte("guard-test-secret"))
	require.NoError(t, err)
	issuer := jwt.NewIssuer(codec, clk, config.TokenConfig{
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	verifier := jwt.NewVerifier(codec, clk)

	users := new(mockPrincipalStore)
	users.On("FindByEmail", mock.Anything, "u1").Return(&entity.User{ID: "u1"}, nil)
	guard := NewAuthGuard(verifier, users, logger.NewNopLogger(), nil)

	pair, err := issuer.IssuePair("u1")
	require.NoError(t, err)

	serve := func(h func(http.Handler) http.Handler, token string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h(okHandler(t, "u1")).ServeHTTP(rec, r)
		return rec.Code
	}

	clk.Set(t0.Add(10 * time.Minute))
	assert.Equal(t, http.StatusOK, serve(guard.RequireAccess, pair.AccessToken))
	assert.Equal(t, http.StatusOK, serve(guard.RequireRefresh, pair.RefreshToken))
	assert.Equal(t, http.StatusUnauthorized, serve(guard.RequireAccess, pair.RefreshToken))
	assert.Equal(t, http.StatusUnauthorized, serve(guard.RequireRefresh, pair.AccessToken))

	clk.Set(t0.Add(31 * time.Minute))
	assert.Equal(t, http.StatusUnauthorized, serve(guard.RequireAccess, pair.AccessToken))
	assert.Equal(t, http.StatusOK, serve(guard.RequireRefresh, pair.RefreshToken))
}
