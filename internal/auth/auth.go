package auth

import (
	"github.com/gofiber/fiber/v2"

	typConsole "github.com/wasex/go-whatsapp-sender-console/internal/types"
	pkgAuth "github.com/wasex/go-whatsapp-sender-console/pkg/auth"
	"github.com/wasex/go-whatsapp-sender-console/pkg/log"
	"github.com/wasex/go-whatsapp-sender-console/pkg/router"
)

// Login exchanges the operator password for a bearer token.
func Login(c *fiber.Ctx) error {
	if !pkgAuth.Enabled() {
		return router.ResponseBadRequest(c, "Authentication is not enabled")
	}

	var reqLogin typConsole.RequestLogin
	if err := c.BodyParser(&reqLogin); err != nil {
		log.Print(c).Warn("Failed to parse body request")
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	if !pkgAuth.CheckPassword(reqLogin.Password) {
		log.Print(c).Warn("Operator login rejected")
		return router.ResponseUnauthorized(c, "Invalid password")
	}

	token, err := pkgAuth.GenerateOperatorToken()
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to generate operator token")
		return router.ResponseInternalError(c, err.Error())
	}

	log.Print(c).Info("Operator logged in")
	return router.ResponseSuccessWithData(c, "Success login", map[string]interface{}{"token": token})
}
