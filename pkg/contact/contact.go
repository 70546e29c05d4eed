package contact

import (
	"strings"

	pkgWhatsApp "github.com/wasex/go-whatsapp-sender-console/pkg/whatsapp"
)

// Contact is a single entry of the directory. ID is the canonical
// WhatsApp address and doubles as the primary key; Phone is the ID
// without the server suffix. Name falls back to Phone until a real
// display name is learned from a sync event or an import.
type Contact struct {
	ID       string `json:"id"`
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	UseCount int    `json:"useCount"`
	LastUsed int64  `json:"lastUsed"`
}

// HasPlaceholderName reports whether the contact still carries the
// phone-digits sentinel instead of a real display name.
func (c Contact) HasPlaceholderName() bool {
	return c.Name == c.Phone
}

func isUserAddress(id string) bool {
	return strings.HasSuffix(id, pkgWhatsApp.UserSuffix)
}

func phoneFromAddress(id string) string {
	return strings.TrimSuffix(id, pkgWhatsApp.UserSuffix)
}
