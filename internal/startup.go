package internal

import (
	"context"
	"os"

	"github.com/wasex/go-whatsapp-sender-console/pkg/contact"
	"github.com/wasex/go-whatsapp-sender-console/pkg/env"
	"github.com/wasex/go-whatsapp-sender-console/pkg/log"
	"github.com/wasex/go-whatsapp-sender-console/pkg/mediastore"
	"github.com/wasex/go-whatsapp-sender-console/pkg/template"
	pkgWhatsApp "github.com/wasex/go-whatsapp-sender-console/pkg/whatsapp"
)

// App holds the long-lived state shared by the HTTP controllers.
type App struct {
	Session   *pkgWhatsApp.Session
	Sender    *pkgWhatsApp.Sender
	Contacts  *contact.Directory
	Templates *template.Store
	Media     *mediastore.Catalog
}

// Startup creates the working directories, loads the persisted contact
// directory and initializes the WhatsApp session.
func Startup(ctx context.Context) (*App, error) {
	log.Print(nil).Info("Running Startup Tasks")

	contactsFile := env.GetEnvStringOrDefault("CONTACTS_FILE", "data/contacts.json")
	mediaDir := env.GetEnvStringOrDefault("MEDIA_DIR", "data/media")
	templatesDir := env.GetEnvStringOrDefault("TEMPLATES_DIR", "data/templates")

	for _, dir := range []string{mediaDir, templatesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	directory := contact.NewDirectory(contact.NewFileStore(contactsFile))
	if err := directory.Load(); err != nil {
		log.Print(nil).WithError(err).Warn("Failed to load contact directory, starting empty")
	} else {
		log.Print(nil).WithField("contacts", directory.Len()).Info("Contact directory loaded")
	}

	session, err := pkgWhatsApp.NewSession(ctx, directory)
	if err != nil {
		return nil, err
	}

	app := &App{
		Session:   session,
		Sender:    pkgWhatsApp.NewSender(session),
		Contacts:  directory,
		Templates: template.NewStore(templatesDir),
		Media:     mediastore.NewCatalog(mediaDir),
	}

	// WHATSAPP_AUTOCONNECT: default true, reconnect a paired device on boot.
	if env.GetEnvBoolOrDefault("WHATSAPP_AUTOCONNECT", true) {
		if err := session.Connect(ctx); err != nil {
			log.Print(nil).WithError(err).Warn("Failed to connect session on startup")
		}
	}

	return app, nil
}
