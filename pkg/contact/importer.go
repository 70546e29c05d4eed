package contact

import (
	"errors"
	"strings"

	"github.com/wasex/go-whatsapp-sender-console/pkg/log"
	"github.com/wasex/go-whatsapp-sender-console/pkg/validation"
)

// minImportPhoneDigits is the shortest digit string accepted from a
// Google export row.
const minImportPhoneDigits = 8

var ErrNoPhoneColumns = errors.New("no phone columns found, export contacts as Google CSV")
var ErrEmptyCSV = errors.New("csv file has no data rows")

// ImportSimple ingests "phone,name" (or "phone;name") lines into the
// directory. Malformed lines are skipped. Returns the imported count.
func ImportSimple(d *Directory, csv string) int {
	imported := 0
	for _, line := range strings.Split(csv, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';'
		})
		if len(parts) < 2 {
			continue
		}
		phone := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		if phone == "" || name == "" {
			continue
		}
		d.AddManual(phone, name)
		imported++
	}
	return imported
}

// ImportGoogle replaces the whole directory with a Google Contacts
// export. The export schema is guessed from the header row: a "Name"
// column when present, otherwise Given/Family name columns, otherwise
// column 0; every column whose header mentions both "Phone" and
// "Value" contributes numbers, so one row may yield several contacts.
//
// The phone columns are validated before the destructive clear, so a
// bad file leaves the existing directory untouched.
func ImportGoogle(d *Directory, data []byte) (int, error) {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return 0, ErrEmptyCSV
	}

	header := splitCSVLine(lines[0])

	nameIndex := indexOf(header, "Name")
	firstNameIndex := indexOfAny(header, "Given Name", "First Name")
	lastNameIndex := indexOfAny(header, "Family Name", "Last Name")

	// Google sometimes truncates the header; fall back to column 0.
	if firstNameIndex == -1 && len(header) > 0 {
		firstNameIndex = 0
	}

	var phoneIndices []int
	for i, h := range header {
		if strings.Contains(h, "Phone") && strings.Contains(h, "Value") {
			phoneIndices = append(phoneIndices, i)
		}
	}
	if len(phoneIndices) == 0 {
		return 0, ErrNoPhoneColumns
	}

	log.Import("google").
		WithField("name_col", nameIndex).
		WithField("first_name_col", firstNameIndex).
		WithField("last_name_col", lastNameIndex).
		WithField("phone_cols", len(phoneIndices)).
		Info("Google CSV header parsed")

	d.Clear()

	imported := 0
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		values := splitCSVLine(line)

		name := ""
		if nameIndex >= 0 && fieldAt(values, nameIndex) != "" {
			name = fieldAt(values, nameIndex)
		} else {
			firstName := fieldAt(values, firstNameIndex)
			lastName := fieldAt(values, lastNameIndex)
			name = strings.TrimSpace(firstName + " " + lastName)
		}
		if name == "" {
			continue
		}

		for _, phoneIndex := range phoneIndices {
			phone := validation.StripPhonePunctuation(fieldAt(values, phoneIndex))
			if len(phone) < minImportPhoneDigits {
				continue
			}
			d.AddManual(phone, name)
			imported++
		}
	}

	return imported, nil
}

// splitCSVLine splits a single CSV line honoring double-quoted fields,
// with embedded quotes escaped by doubling.
func splitCSVLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		char := line[i]
		switch {
		case char == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case char == ',' && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(char)
		}
	}

	result = append(result, strings.TrimSpace(current.String()))
	return result
}

func fieldAt(values []string, index int) string {
	if index < 0 || index >= len(values) {
		return ""
	}
	return values[index]
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func indexOfAny(header []string, names ...string) int {
	for _, name := range names {
		if i := indexOf(header, name); i != -1 {
			return i
		}
	}
	return -1
}
