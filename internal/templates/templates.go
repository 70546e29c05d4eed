package templates

import (
	"os"

	"github.com/forPelevin/gomoji"
	"github.com/gofiber/fiber/v2"
	"github.com/rivo/uniseg"

	typConsole "github.com/wasex/go-whatsapp-sender-console/internal/types"
	"github.com/wasex/go-whatsapp-sender-console/pkg/log"
	"github.com/wasex/go-whatsapp-sender-console/pkg/router"
	"github.com/wasex/go-whatsapp-sender-console/pkg/template"
	"github.com/wasex/go-whatsapp-sender-console/pkg/validation"
)

type Controller struct {
	Store *template.Store
}

func NewController(store *template.Store) *Controller {
	return &Controller{Store: store}
}

// Get returns the active template and its referenced variables.
func (ctl *Controller) Get(c *fiber.Ctx) error {
	return router.ResponseSuccessWithData(c, "Success get template", map[string]interface{}{
		"template":  ctl.Store.Get(),
		"variables": ctl.Store.RequiredVariables(),
	})
}

// Set replaces the active template wholesale.
func (ctl *Controller) Set(c *fiber.Ctx) error {
	var reqSet typConsole.RequestSetTemplate
	if err := c.BodyParser(&reqSet); err != nil {
		log.Print(c).Warn("Failed to parse body request")
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	ctl.Store.Set(reqSet.Template)
	log.Print(c).Info("Template updated")

	return router.ResponseSuccess(c, "Success set template")
}

// ListFiles lists the .txt templates available on disk.
func (ctl *Controller) ListFiles(c *fiber.Ctx) error {
	return router.ResponseSuccessWithData(c, "Success get templates", map[string]interface{}{
		"templates": ctl.Store.ListFiles(),
	})
}

// Load reads a template file from the templates directory and makes it active.
func (ctl *Controller) Load(c *fiber.Ctx) error {
	var reqLoad typConsole.RequestLoadTemplate
	if err := c.BodyParser(&reqLoad); err != nil {
		log.Print(c).Warn("Failed to parse body request")
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	if len(reqLoad.Filename) == 0 {
		return router.ResponseBadRequest(c, "Missing template filename")
	}

	text, err := ctl.Store.LoadFromFile(reqLoad.Filename)
	if err != nil {
		if os.IsNotExist(err) {
			return router.ResponseNotFound(c, "Template file not found")
		}
		log.Print(c).WithError(err).Error("Failed to load template file")
		return router.ResponseInternalError(c, err.Error())
	}

	return router.ResponseSuccessWithData(c, "Success load template", map[string]interface{}{
		"template": text,
	})
}

// Preview renders the active template for a candidate contact and reports
// message statistics useful before a real send.
func (ctl *Controller) Preview(c *fiber.Ctx) error {
	var reqPreview typConsole.RequestPreview
	if err := c.BodyParser(&reqPreview); err != nil {
		log.Print(c).Warn("Failed to parse body request")
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	phone := validation.StripPhonePunctuation(reqPreview.ContactPhone)
	rendered := ctl.Store.Render(map[string]string{
		"name":  template.ExtractFirstName(reqPreview.ContactName),
		"phone": phone,
	})

	return router.ResponseSuccessWithData(c, "Success preview message", map[string]interface{}{
		"message":  rendered,
		"length":   uniseg.GraphemeClusterCount(rendered),
		"hasEmoji": gomoji.ContainsEmoji(rendered),
	})
}
