package media

import (
	"io"

	"github.com/gofiber/fiber/v2"

	typConsole "github.com/wasex/go-whatsapp-sender-console/internal/types"
	"github.com/wasex/go-whatsapp-sender-console/pkg/log"
	"github.com/wasex/go-whatsapp-sender-console/pkg/mediastore"
	"github.com/wasex/go-whatsapp-sender-console/pkg/router"
)

type Controller struct {
	Catalog *mediastore.Catalog
}

func NewController(catalog *mediastore.Catalog) *Controller {
	return &Controller{Catalog: catalog}
}

// List returns the media catalog with the current selection flagged.
func (ctl *Controller) List(c *fiber.Ctx) error {
	type entry struct {
		mediastore.File
		Selected bool `json:"selected"`
	}

	selected := ctl.Catalog.SelectedName()
	files := ctl.Catalog.List()
	entries := make([]entry, 0, len(files))
	for _, file := range files {
		entries = append(entries, entry{File: file, Selected: file.Name == selected})
	}

	return router.ResponseSuccessWithData(c, "Success get media", map[string]interface{}{
		"media": entries,
	})
}

// Upload stores a media file and classifies it by extension.
func (ctl *Controller) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return router.ResponseBadRequest(c, "Missing file upload")
	}

	if mediastore.TypeOf(fileHeader.Filename) == mediastore.TypeNone {
		return router.ResponseBadRequest(c, "Unsupported media type")
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to open uploaded file")
		return router.ResponseInternalError(c, err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to read uploaded file")
		return router.ResponseInternalError(c, err.Error())
	}

	saved, err := ctl.Catalog.SaveUpload(fileHeader.Filename, data)
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to store media upload")
		return router.ResponseInternalError(c, err.Error())
	}

	log.Print(c).WithField("file", saved.Name).Info("Media uploaded")

	return router.ResponseSuccessWithData(c, "Success upload media", map[string]interface{}{
		"file": saved,
	})
}

// Select marks a catalog file as the attachment for upcoming sends.
// An empty filename clears the selection.
func (ctl *Controller) Select(c *fiber.Ctx) error {
	var reqSelect typConsole.RequestSelectMedia
	if err := c.BodyParser(&reqSelect); err != nil {
		log.Print(c).Warn("Failed to parse body request")
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	if len(reqSelect.Filename) > 0 {
		if _, ok := ctl.Catalog.Find(reqSelect.Filename); !ok {
			return router.ResponseNotFound(c, "Media file not found")
		}
	}

	ctl.Catalog.Select(reqSelect.Filename)

	return router.ResponseSuccessWithData(c, "Success select media", map[string]interface{}{
		"selectedMedia": ctl.Catalog.SelectedName(),
	})
}
