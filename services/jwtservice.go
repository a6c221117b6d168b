package services

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kalender/config"
	"kalender/model"
)

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.Secret),
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.Issuer,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

func (t *TokenIssuer) CreateAccessToken(userID string) (string, error) {
	claims := &model.AccessClaims{
		UserID:           userID,
		RegisteredClaims: t.registered(t.accessTTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.accessSecret)
}

func (t *TokenIssuer) CreateRefreshToken(userID string) (string, error) {
	claims := &model.AccessRefresh{
		UserID:           userID,
		RegisteredClaims: t.registered(t.refreshTTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.refreshSecret)
}

func (t *TokenIssuer) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := t.now()
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// ParseAccessToken verifies signature, expiry and issuer and returns the
// user the token was issued to.
func (t *TokenIssuer) ParseAccessToken(tokenString string) (string, error) {
	claims := &model.AccessClaims{}
	if err := t.parse(tokenString, claims, t.accessSecret); err != nil {
		return "", err
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: invalid userId in token claims", ErrUnauthorized)
	}
	return claims.UserID, nil
}

func (t *TokenIssuer) ParseRefreshToken(tokenString string) (string, error) {
	claims := &model.AccessRefresh{}
	if err := t.parse(tokenString, claims, t.refreshSecret); err != nil {
		return "", err
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: invalid userId in token claims", ErrUnauthorized)
	}
	return claims.UserID, nil
}

func (t *TokenIssuer) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return nil
}

// HashRefreshToken shortens the token with SHA-256 before bcrypt, which
// only looks at the first 72 bytes of its input.
func HashRefreshToken(token string) (string, error) {
	hash := sha256.Sum256([]byte(token))
	hashedToken, err := bcrypt.GenerateFromPassword(hash[:], bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedToken), nil
}

func compareRefreshToken(hashed, token string) bool {
	if hashed == "" {
		return false
	}
	hash := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(hashed), hash[:]) == nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hashed, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("%w: wrong password", ErrUnauthorized)
	}
	return err
}
