package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token is an issued or parsed authentication token.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact serialised JWT.
	SignedString string `json:"-"`

	// UserID is the subject of the token.
	UserID string `json:"-"`
}

func (t *Token) String() string {
	return t.SignedString
}

// TokenResponse is the body returned by the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
