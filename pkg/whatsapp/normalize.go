package whatsapp

import (
	"regexp"
	"strings"

	"go.mau.fi/whatsmeow/types"
)

// UserSuffix is the canonical address suffix for personal WhatsApp contacts.
var UserSuffix = "@" + types.DefaultUserServer

var (
	phonePunctuation = regexp.MustCompile(`[\s\-\(\)\+]`)
	mobileCanonical  = regexp.MustCompile(`^549\d{10}$`)
)

// NormalizeJID maps an arbitrary phone string or JID to a canonical
// Argentine mobile address. The heuristics are an ordered rule list,
// first match wins; unmatched inputs pass through untouched.
//
// Idempotent: feeding the result back in returns it unchanged.
func NormalizeJID(raw string) string {
	phone := strings.TrimSuffix(raw, UserSuffix)
	phone = phonePunctuation.ReplaceAllString(phone, "")

	switch {
	case mobileCanonical.MatchString(phone):
		// Already 549 + 10 digits, nothing to do.

	case strings.HasPrefix(phone, "0"):
		// 0XX-XXXX-XXXX: domestic trunk prefix, swap for country+mobile code.
		phone = "549" + phone[1:]

	case strings.HasPrefix(phone, "15") && len(phone) == 10:
		// 15-XXXX-XXXX: local mobile without area code, assume Buenos Aires.
		phone = "54911" + phone[2:]

	case strings.HasPrefix(phone, "54") && !strings.HasPrefix(phone, "549") && len(phone) == 12:
		// 54-XX-XXXX-XXXX: country code without the mobile 9.
		phone = "549" + phone[2:]

	case len(phone) == 10 && !strings.HasPrefix(phone, "54"):
		// Bare local number, prepend Argentina mobile code.
		phone = "549" + phone
	}

	return phone + UserSuffix
}
