package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devconnect/backend/internal/models"
)

var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

// TokenIssuer signs and verifies the first-party token pair.
type TokenIssuer interface {
	IssueAccessToken(user *models.User) (string, error)
	IssueRefreshToken(userID string) (string, error)
	ParseRefreshToken(token string) (string, error)
}

type JWTTokenIssuer struct {
	accessSecret  string
	accessExpiry  time.Duration
	refreshSecret string
	refreshExpiry time.Duration
}

func NewJWTTokenIssuer(accessSecret string, accessExpiry time.Duration, refreshSecret string, refreshExpiry time.Duration) *JWTTokenIssuer {
	return &JWTTokenIssuer{
		accessSecret:  accessSecret,
		accessExpiry:  accessExpiry,
		refreshSecret: refreshSecret,
		refreshExpiry: refreshExpiry,
	}
}

func (t *JWTTokenIssuer) IssueAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(t.accessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.accessSecret))
}

func (t *JWTTokenIssuer) IssueRefreshToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(t.refreshExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.refreshSecret))
}

func (t *JWTTokenIssuer) ParseRefreshToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(t.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidRefreshToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidRefreshToken
	}
	return userID, nil
}
