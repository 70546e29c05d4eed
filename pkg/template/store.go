package template

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Store holds the single active message template. Rendering never
// mutates the template; operators replace it wholesale.
type Store struct {
	mu       sync.RWMutex
	template string
	dir      string
}

// NewStore creates a template store backed by a directory of .txt
// template files. The active template starts empty.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Set(text string) {
	s.mu.Lock()
	s.template = text
	s.mu.Unlock()
}

func (s *Store) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.template
}

// Render substitutes every {{name}} occurrence, case-insensitively,
// with the matching variable value. A key present in vars replaces the
// placeholder even when its value is empty; placeholders without a
// matching key are left as-is. The result is trimmed.
func (s *Store) Render(vars map[string]string) string {
	result := s.Get()
	for key, value := range vars {
		pattern := regexp.MustCompile(`(?i)\{\{` + regexp.QuoteMeta(key) + `\}\}`)
		result = pattern.ReplaceAllLiteralString(result, value)
	}
	return strings.TrimSpace(result)
}

// RequiredVariables lists the distinct {{word}} placeholder names in
// the active template. Order follows first appearance.
func (s *Store) RequiredVariables() []string {
	matches := variablePattern.FindAllStringSubmatch(s.Get(), -1)
	seen := make(map[string]bool, len(matches))
	var names []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// LoadFromFile reads a template file from the templates directory and
// makes it the active template.
func (s *Store) LoadFromFile(filename string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil {
		return "", err
	}
	s.Set(string(data))
	return string(data), nil
}

// ListFiles returns the .txt template files available for loading.
// A missing or unreadable directory yields an empty list.
func (s *Store) ListFiles() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return []string{}
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".txt") {
			files = append(files, entry.Name())
		}
	}
	return files
}

// ExtractFirstName returns the first whitespace-delimited token of a
// full display name.
func ExtractFirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
