package status

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wasex/go-whatsapp-sender-console/pkg/contact"
	"github.com/wasex/go-whatsapp-sender-console/pkg/mediastore"
	"github.com/wasex/go-whatsapp-sender-console/pkg/router"
	"github.com/wasex/go-whatsapp-sender-console/pkg/template"
	"github.com/wasex/go-whatsapp-sender-console/pkg/whatsapp"
)

type Controller struct {
	Session   *whatsapp.Session
	Contacts  *contact.Directory
	Templates *template.Store
	Media     *mediastore.Catalog
}

func NewController(session *whatsapp.Session, contacts *contact.Directory, templates *template.Store, media *mediastore.Catalog) *Controller {
	return &Controller{
		Session:   session,
		Contacts:  contacts,
		Templates: templates,
		Media:     media,
	}
}

// GetStatus reports the session state alongside the console working set.
func (ctl *Controller) GetStatus(c *fiber.Ctx) error {
	return router.ResponseSuccessWithData(c, "Success get status", map[string]interface{}{
		"connected":     ctl.Session.IsConnected(),
		"qrCode":        ctl.Session.CurrentQR(),
		"contactsCount": ctl.Contacts.Len(),
		"template":      ctl.Templates.Get(),
		"selectedMedia": ctl.Media.SelectedName(),
	})
}
