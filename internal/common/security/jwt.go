package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// JWT issues and verifies the stateless bearer tokens used by the API.
// Tokens carry only the subject user ID; role flags are resolved from the
// user store on every request so role changes take effect immediately.
type JWT struct {
	Auth   *jwtauth.JWTAuth
	expiry time.Duration
}

func NewJWT(secret []byte, expiry time.Duration) *JWT {
	return &JWT{
		Auth:   jwtauth.New("HS256", secret, nil),
		expiry: expiry,
	}
}

func (j *JWT) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(j.expiry).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := j.Auth.Encode(claims)
	return tokenString, err
}

func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}
