package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wasex/go-whatsapp-sender-console/pkg/env"
	"github.com/wasex/go-whatsapp-sender-console/pkg/router"
)

// OperatorPassword guards the console. Empty means the console runs
// open, the mode for a box that never leaves localhost.
var OperatorPassword string

func init() {
	OperatorPassword, _ = env.GetEnvString("AUTH_OPERATOR_PASSWORD")
}

func Enabled() bool {
	return OperatorPassword != ""
}

// CheckPassword compares a login attempt in constant time.
func CheckPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(OperatorPassword)) == 1
}

// OperatorAuth validates the Bearer token on API routes. A no-op when
// no operator password is configured.
func OperatorAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Enabled() {
			return c.Next()
		}

		header := c.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			return router.ResponseUnauthorized(c, "Missing bearer token")
		}

		if _, err := ValidateOperatorToken(token); err != nil {
			return router.ResponseUnauthorized(c, "Invalid or expired token")
		}
		return c.Next()
	}
}
