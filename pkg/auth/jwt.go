package auth

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"
)

type JWTServiceInterface interface {
	GenerateJWT(userID int, isAdmin bool, expirationTime time.Time) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

var (
	secret       []byte
	fallbackWarn sync.Once
)

// SetSecret installs the signing secret. Call once at startup, before any
// token is issued or checked.
func SetSecret(s string) {
	if s != "" {
		secret = []byte(s)
	}
}

func secretKey() []byte {
	if len(secret) > 0 {
		return secret
	}
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	fallbackWarn.Do(func() {
		zap.L().Warn("JWT_SECRET is not set, tokens are signed with the development secret")
	})
	return []byte("stablex-dev-secret")
}

// Claims carry the authenticated identity the engine trusts: a numeric
// user id and the administrator role flag.
type Claims struct {
	UserID  int  `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
	jwt.StandardClaims
}

type JWTService struct{}

func (s *JWTService) GenerateJWT(userID int, isAdmin bool, expirationTime time.Time) (string, error) {
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
			Issuer:    "stablex",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secretKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == 0 || claims.Issuer != "stablex" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
