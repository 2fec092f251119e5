package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a profile owner.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and profile info.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	IssuedAt    time.Time   `json:"issued_at"`
	Profile     ProfileInfo `json:"profile"`
}

// JWTClaims embeds the registered claims plus profile identity.
type JWTClaims struct {
	ProfileID string `json:"pid"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}
