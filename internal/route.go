package internal

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wasex/go-whatsapp-sender-console/pkg/auth"
	"github.com/wasex/go-whatsapp-sender-console/pkg/env"

	ctlAuth "github.com/wasex/go-whatsapp-sender-console/internal/auth"
	ctlContacts "github.com/wasex/go-whatsapp-sender-console/internal/contacts"
	ctlDevice "github.com/wasex/go-whatsapp-sender-console/internal/device"
	ctlIndex "github.com/wasex/go-whatsapp-sender-console/internal/index"
	ctlMedia "github.com/wasex/go-whatsapp-sender-console/internal/media"
	ctlSend "github.com/wasex/go-whatsapp-sender-console/internal/send"
	ctlStatus "github.com/wasex/go-whatsapp-sender-console/internal/status"
	ctlTemplates "github.com/wasex/go-whatsapp-sender-console/internal/templates"
)

func Routes(app *fiber.App, console *App) {
	status := ctlStatus.NewController(console.Session, console.Contacts, console.Templates, console.Media)
	device := ctlDevice.NewController(console.Session)
	contacts := ctlContacts.NewController(console.Contacts)
	templates := ctlTemplates.NewController(console.Templates)
	media := ctlMedia.NewController(console.Media)
	send := ctlSend.NewController(console.Session, console.Sender, console.Contacts, console.Templates, console.Media)

	// Route for Index
	// ---------------------------------------------
	app.Get("/", ctlIndex.Index)

	// Operator login (only useful when AUTH_OPERATOR_PASSWORD is set)
	app.Post("/auth/login", ctlAuth.Login)

	// All console operations live under /api behind the operator auth
	// middleware, which is a no-op when auth is disabled.
	operatorMiddleware := auth.OperatorAuth()
	api := app.Group("/api", operatorMiddleware)

	// Session routes
	api.Get("/status", status.GetStatus)
	api.Post("/connect", device.Connect)
	api.Post("/pair-code", device.PairCode)
	api.Post("/disconnect", device.Disconnect)

	// Contact routes
	api.Get("/contacts", contacts.List)
	api.Post("/contacts", contacts.Add)
	api.Delete("/contacts", contacts.Clear)
	api.Post("/contacts/import", contacts.ImportSimple)
	api.Post("/contacts/import-google", contacts.ImportGoogle)

	// Template routes
	api.Get("/template", templates.Get)
	api.Post("/template", templates.Set)
	api.Get("/templates", templates.ListFiles)
	api.Post("/template/load", templates.Load)
	api.Post("/preview", templates.Preview)

	// Media routes
	api.Get("/media", media.List)
	api.Post("/media/upload", media.Upload)
	api.Post("/media/select", media.Select)

	// Send route
	api.Post("/send", send.Send)

	// Static console UI plus the media directory for previews.
	app.Static("/media", console.Media.Dir())
	app.Static("/", env.GetEnvStringOrDefault("PUBLIC_DIR", "public"))
}
