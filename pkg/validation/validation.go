package validation

import (
	"errors"
	"regexp"
	"strings"
)

var digitsPattern = regexp.MustCompile(`^[0-9]{6,16}$`)

// ValidatePhone ensures a dialable number: digits only after stripping
// formatting punctuation, length 6-16.
func ValidatePhone(phone string) error {
	trimmed := StripPhonePunctuation(phone)
	if trimmed == "" {
		return errors.New("phone number cannot be empty")
	}
	if !digitsPattern.MatchString(trimmed) {
		return errors.New("phone number must be digits only, length 6 to 16")
	}
	return nil
}

// StripPhonePunctuation removes spaces, hyphens, parentheses and plus signs.
func StripPhonePunctuation(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "")
	return replacer.Replace(strings.TrimSpace(phone))
}

// ValidateContactName ensures a display name is provided.
func ValidateContactName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("contact name is required")
	}
	return nil
}

// ValidateCSVPayload ensures an import body contains at least one data line.
func ValidateCSVPayload(csv string) error {
	if strings.TrimSpace(csv) == "" {
		return errors.New("csv payload cannot be empty")
	}
	return nil
}
