package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"trendnest_backend/internal/config"
	"trendnest_backend/internal/models"
)

var ErrInvalidToken = errors.New("token invalide ou expiré")

// GenerateJWT signe un token HS256 dont le sujet est l'adresse email.
func GenerateJWT(user *models.User, cfg config.JWTConfig) (string, error) {
	claims := jwt.MapClaims{
		"sub":     user.Email,
		"user_id": user.ID.String(),
		"exp":     time.Now().Add(cfg.Expiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseJWT vérifie la signature et l'expiration, et retourne l'email (sujet).
func ParseJWT(tokenString string, cfg config.JWTConfig) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
