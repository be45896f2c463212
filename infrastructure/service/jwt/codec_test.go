package jwt

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "github.com/codemastery/codemastery-api/domain/error"
	"github.com/codemastery/codemastery-api/domain/valueobject"
)

var testSecret = []byte("test-secret-key-for-codec")

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)
	return codec
}

func sampleClaims(subject string, tokenType valueobject.TokenType) valueobject.TokenClaims {
	iat := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	return valueobject.TokenClaims{
		Subject:   subject,
		Type:      tokenType,
		IssuedAt:  iat,
		ExpiresAt: iat.Add(30 * time.Minute),
	}
}

func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := NewCodec(nil)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = NewCodec([]byte{})
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	tests := []struct {
		name   string
		claims valueobject.TokenClaims
	}{
		{"access", sampleClaims("u1", valueobject.TokenTypeAccess)},
		{"refresh", sampleClaims("b1c6d1a2-0c3e-4a8b-9d7e-2f6a1c9e4b10", valueobject.TokenTypeRefresh)},
		{"unicode subject", sampleClaims("ünïcødé@example.com", valueobject.TokenTypeAccess)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := codec.Encode(tt.claims)
			require.NoError(t, err)
			assert.Len(t, strings.Split(token, "."), 3)

			got, err := codec.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, tt.claims, got)
		})
	}
}

func TestCodec_WireFormat(t *testing.T) {
	codec := newTestCodec(t)
	claims := sampleClaims("u1", valueobject.TokenTypeAccess)

	token, err := codec.Encode(claims)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"alg":"HS256","typ":"JWT"}`, string(header))

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.Equal(t, `"u1"`, string(raw["sub"]))
	assert.Equal(t, `"access"`, string(raw["type"]))
	assert.Equal(t, "1736931600", string(raw["iat"]))
	assert.Equal(t, "1736933400", string(raw["exp"]))
}

func TestCodec_DecodeMalformed(t *testing.T) {
	codec := newTestCodec(t)

	inputs := []string{
		"",
		"not.a.token",
		"abc",
		"a.b",
		"a.b.c.d",
		"eyJhbGciOiJIUzI1NiJ9.%%%.sig",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := codec.Decode(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerr.ErrTokenMalformed)
		})
	}
}

func TestCodec_DecodeMissingTimeClaims(t *testing.T) {
	codec := newTestCodec(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "type": "access"})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)

	_, err = codec.Decode(signed)
	assert.ErrorIs(t, err, domainerr.ErrTokenMalformed)
}

func TestCodec_SignatureTampering(t *testing.T) {
	codec := newTestCodec(t)

	for _, claims := range []valueobject.TokenClaims{
		sampleClaims("u1", valueobject.TokenTypeAccess),
		sampleClaims("u2", valueobject.TokenTypeRefresh),
	} {
		token, err := codec.Encode(claims)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		sig := parts[2]

		// The final character also carries padding bits, so it is left alone.
		for i := 0; i < len(sig)-1; i++ {
			replacement := byte('A')
			if sig[i] == 'A' {
				replacement = 'B'
			}
			tampered := sig[:i] + string(replacement) + sig[i+1:]

			_, err := codec.Decode(parts[0] + "." + parts[1] + "." + tampered)
			require.Error(t, err, "position %d", i)
			assert.ErrorIs(t, err, domainerr.ErrTokenInvalidSignature, "position %d", i)
		}
	}
}

func TestCodec_PayloadTampering(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Encode(sampleClaims("u1", valueobject.TokenTypeRefresh))
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	forged, err := json.Marshal(map[string]interface{}{
		"sub":  "u1",
		"type": "access",
		"iat":  1736931600,
		"exp":  1736933400,
	})
	require.NoError(t, err)

	_, err = codec.Decode(parts[0] + "." + base64.RawURLEncoding.EncodeToString(forged) + "." + parts[2])
	assert.ErrorIs(t, err, domainerr.ErrTokenInvalidSignature)
}

func TestCodec_WrongSecret(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec([]byte("another-secret"))
	require.NoError(t, err)

	token, err := other.Encode(sampleClaims("u1", valueobject.TokenTypeAccess))
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, domainerr.ErrTokenInvalidSignature)
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec := newTestCodec(t)
	claims := jwt.MapClaims{"sub": "u1", "type": "access", "iat": 1736931600, "exp": 1736933400}

	t.Run("none", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Decode(signed)
		require.Error(t, err)
		assert.True(t, domainerr.IsVerificationError(err))
	})

	t.Run("HS512", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
		signed, err := token.SignedString(testSecret)
		require.NoError(t, err)

		_, err = codec.Decode(signed)
		require.Error(t, err)
		assert.True(t, domainerr.IsVerificationError(err))
	})
}

func TestCodec_DoesNotCheckExpiry(t *testing.T) {
	codec := newTestCodec(t)
	claims := sampleClaims("u1", valueobject.TokenTypeAccess)
	claims.IssuedAt = time.Unix(1000, 0).UTC()
	claims.ExpiresAt = time.Unix(2000, 0).UTC()

	token, err := codec.Encode(claims)
	require.NoError(t, err)

	got, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, claims, got)
}

func TestInspect(t *testing.T) {
	codec := newTestCodec(t)
	claims := sampleClaims("ana@example.com", valueobject.TokenTypeRefresh)

	token, err := codec.Encode(claims)
	require.NoError(t, err)

	t.Run("reads claims without the secret", func(t *testing.T) {
		got, err := Inspect(token)
		require.NoError(t, err)
		assert.Equal(t, "HS256", got.Algorithm)
		assert.Equal(t, claims, got.Claims)
	})

	t.Run("ignores a broken signature", func(t *testing.T) {
		parts := strings.Split(token, ".")
		got, err := Inspect(parts[0] + "." + parts[1] + ".AAAA")
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", got.Claims.Subject)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Inspect("not-a-token")
		assert.ErrorIs(t, err, domainerr.ErrTokenMalformed)
	})
}
