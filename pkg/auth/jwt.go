package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wasex/go-whatsapp-sender-console/pkg/env"
)

var jwtSecretKey string
var tokenTTL time.Duration

func init() {
	// JWT_SECRET_KEY is only required once AUTH_OPERATOR_PASSWORD is set.
	jwtSecretKey, _ = env.GetEnvString("JWT_SECRET_KEY")
	if Enabled() && jwtSecretKey == "" {
		panic("JWT_SECRET_KEY is required when AUTH_OPERATOR_PASSWORD is set")
	}
	tokenTTL = env.GetEnvDurationOrDefault("AUTH_TOKEN_TTL", 24*time.Hour)
}

type OperatorClaims struct {
	jwt.RegisteredClaims
}

// GenerateOperatorToken creates a session token for the web console.
func GenerateOperatorToken() (string, error) {
	if jwtSecretKey == "" {
		return "", errors.New("JWT_SECRET_KEY not configured")
	}

	claims := OperatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecretKey))
}

// ValidateOperatorToken validates a session token and returns its claims.
func ValidateOperatorToken(tokenString string) (*OperatorClaims, error) {
	if jwtSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*OperatorClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token claims")
}
