package send

import (
	"github.com/gofiber/fiber/v2"

	typConsole "github.com/wasex/go-whatsapp-sender-console/internal/types"
	"github.com/wasex/go-whatsapp-sender-console/pkg/contact"
	"github.com/wasex/go-whatsapp-sender-console/pkg/log"
	"github.com/wasex/go-whatsapp-sender-console/pkg/mediastore"
	"github.com/wasex/go-whatsapp-sender-console/pkg/router"
	"github.com/wasex/go-whatsapp-sender-console/pkg/template"
	"github.com/wasex/go-whatsapp-sender-console/pkg/validation"
	"github.com/wasex/go-whatsapp-sender-console/pkg/whatsapp"
)

type Controller struct {
	Session   *whatsapp.Session
	Sender    *whatsapp.Sender
	Directory *contact.Directory
	Templates *template.Store
	Media     *mediastore.Catalog
}

func NewController(session *whatsapp.Session, sender *whatsapp.Sender, directory *contact.Directory, templates *template.Store, media *mediastore.Catalog) *Controller {
	return &Controller{
		Session:   session,
		Sender:    sender,
		Directory: directory,
		Templates: templates,
		Media:     media,
	}
}

// Send delivers one personalized message. The body carries either a custom
// message or relies on the active template; the selected media, if any, is
// attached. Usage is recorded only after the session confirms delivery.
func (ctl *Controller) Send(c *fiber.Ctx) error {
	var reqSend typConsole.RequestSend
	if err := c.BodyParser(&reqSend); err != nil {
		log.Print(c).Warn("Failed to parse body request")
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	if !ctl.Session.IsConnected() {
		return router.ResponseBadRequest(c, "Session is not connected")
	}

	phone := validation.StripPhonePunctuation(reqSend.ContactPhone)
	if err := validation.ValidatePhone(phone); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	text := reqSend.CustomMessage
	if len(text) == 0 {
		text = ctl.Templates.Render(map[string]string{
			"name":  template.ExtractFirstName(reqSend.ContactName),
			"phone": phone,
		})
	}
	if len(text) == 0 {
		return router.ResponseBadRequest(c, "Nothing to send, set a template or pass a custom message")
	}

	var attachment *mediastore.File
	if file, ok := ctl.Media.Selected(); ok {
		attachment = &file
	}

	messageID, err := ctl.Sender.Send(c.UserContext(), phone, text, attachment)
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to send message")
		return router.ResponseInternalError(c, err.Error())
	}

	if len(reqSend.ContactID) > 0 {
		ctl.Directory.MarkUsed(reqSend.ContactID)
	}

	return router.ResponseSuccessWithData(c, "Success send message", map[string]interface{}{
		"messageId": messageID,
	})
}
