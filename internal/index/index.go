package index

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wasex/go-whatsapp-sender-console/pkg/router"
)

func Index(c *fiber.Ctx) error {
	return router.ResponseSuccess(c, "WhatsApp Sender Console is running")
}
