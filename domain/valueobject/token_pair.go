package valueobject

import "time"

const BearerTokenType = "bearer"

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// NewTokenPair reports expires_in as the access token lifetime in whole seconds.
func NewTokenPair(accessToken, refreshToken string, accessTTL time.Duration) *TokenPair {
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    BearerTokenType,
		ExpiresIn:    int64(accessTTL / time.Second),
	}
}
