package model

import "github.com/golang-jwt/jwt/v5"

// TokenPair is handed to the client after sign in and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AccessClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type AccessRefresh struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
