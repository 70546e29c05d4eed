package contacts

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	typConsole "github.com/wasex/go-whatsapp-sender-console/internal/types"
	"github.com/wasex/go-whatsapp-sender-console/pkg/contact"
	"github.com/wasex/go-whatsapp-sender-console/pkg/log"
	"github.com/wasex/go-whatsapp-sender-console/pkg/router"
	"github.com/wasex/go-whatsapp-sender-console/pkg/validation"
)

type Controller struct {
	Directory *contact.Directory
}

func NewController(directory *contact.Directory) *Controller {
	return &Controller{Directory: directory}
}

// List returns the ranked directory, optionally filtered by the q parameter.
func (ctl *Controller) List(c *fiber.Ctx) error {
	query := c.Query("q")

	var list []contact.Contact
	if len(query) > 0 {
		list = ctl.Directory.Search(query)
	} else {
		list = ctl.Directory.List()
	}

	return router.ResponseSuccessWithData(c, "Success get contacts", map[string]interface{}{
		"contacts": list,
		"total":    len(list),
	})
}

// Add registers a single contact by phone number.
func (ctl *Controller) Add(c *fiber.Ctx) error {
	var reqAdd typConsole.RequestAddContact
	if err := c.BodyParser(&reqAdd); err != nil {
		log.Print(c).Warn("Failed to parse body request")
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	phone := validation.StripPhonePunctuation(reqAdd.Phone)
	if err := validation.ValidatePhone(phone); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}
	if err := validation.ValidateContactName(reqAdd.Name); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	ctl.Directory.AddManual(phone, reqAdd.Name)
	log.Print(c).WithField("phone", phone).Info("Contact added")

	return router.ResponseSuccess(c, "Success add contact")
}

// Clear empties the whole directory.
func (ctl *Controller) Clear(c *fiber.Ctx) error {
	ctl.Directory.Clear()
	log.Print(c).Info("Contacts cleared")

	return router.ResponseSuccess(c, "Success clear contacts")
}

// ImportSimple ingests a phone,name CSV payload posted as JSON.
func (ctl *Controller) ImportSimple(c *fiber.Ctx) error {
	var reqImport typConsole.RequestImportCSV
	if err := c.BodyParser(&reqImport); err != nil {
		log.Print(c).Warn("Failed to parse body request")
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	if err := validation.ValidateCSVPayload(reqImport.CSV); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	imported := contact.ImportSimple(ctl.Directory, reqImport.CSV)
	log.Import("csv").WithField("imported", imported).Info("Simple CSV import finished")

	return router.ResponseSuccessWithData(c, "Success import contacts", map[string]interface{}{
		"imported": imported,
		"total":    ctl.Directory.Len(),
	})
}

// ImportGoogle ingests a Google Contacts CSV export uploaded as multipart file.
// The current directory is replaced only after the file passes validation.
func (ctl *Controller) ImportGoogle(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return router.ResponseBadRequest(c, "Missing file upload")
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

	imported, err := contact.ImportGoogle(ctl.Directory, data)
	if err != nil {
		if errors.Is(err, contact.ErrNoPhoneColumns) || errors.Is(err, contact.ErrEmptyCSV) {
			return router.ResponseBadRequest(c, err.Error())
		}
		log.Print(c).WithError(err).Error("Failed to import Google CSV")
		return router.ResponseInternalError(c, err.Error())
	}

	log.Import("google-csv").WithField("imported", imported).Info("Google CSV import finished")

	return router.ResponseSuccessWithData(c, "Success import contacts", map[string]interface{}{
		"imported": imported,
		"total":    ctl.Directory.Len(),
	})
}
