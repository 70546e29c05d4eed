package device

import (
	"github.com/gofiber/fiber/v2"

	typConsole "github.com/wasex/go-whatsapp-sender-console/internal/types"
	"github.com/wasex/go-whatsapp-sender-console/pkg/log"
	"github.com/wasex/go-whatsapp-sender-console/pkg/router"
	"github.com/wasex/go-whatsapp-sender-console/pkg/whatsapp"
)

type Controller struct {
	Session *whatsapp.Session
}

func NewController(session *whatsapp.Session) *Controller {
	return &Controller{Session: session}
}

// Connect starts the WhatsApp session. When the device is not paired yet
// the QR code becomes available on the status endpoint shortly after.
func (ctl *Controller) Connect(c *fiber.Ctx) error {
	if err := ctl.Session.Connect(c.UserContext()); err != nil {
		log.Print(c).WithError(err).Error("Failed to connect session")
		return router.ResponseInternalError(c, err.Error())
	}

	return router.ResponseSuccessWithData(c, "Success connect session", map[string]interface{}{
		"connected": ctl.Session.IsConnected(),
		"qrCode":    ctl.Session.CurrentQR(),
	})
}

// PairCode requests a phone-number pairing code as an alternative to QR scanning.
func (ctl *Controller) PairCode(c *fiber.Ctx) error {
	var reqPairCode typConsole.RequestPairCode
	if err := c.BodyParser(&reqPairCode); err != nil {
		log.Print(c).Warn("Failed to parse body request")
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	if len(reqPairCode.Phone) == 0 {
		return router.ResponseBadRequest(c, "Missing phone number")
	}

	code, err := ctl.Session.PairWithCode(c.UserContext(), reqPairCode.Phone)
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to request pairing code")
		return router.ResponseInternalError(c, err.Error())
	}

	return router.ResponseSuccessWithData(c, "Success request pairing code", map[string]interface{}{
		"pairCode": code,
	})
}

// Disconnect logs out and removes the stored device credentials.
func (ctl *Controller) Disconnect(c *fiber.Ctx) error {
	if err := ctl.Session.Logout(c.UserContext()); err != nil {
		log.Print(c).WithError(err).Error("Failed to logout session")
		return router.ResponseInternalError(c, err.Error())
	}

	return router.ResponseSuccess(c, "Success logout session")
}
