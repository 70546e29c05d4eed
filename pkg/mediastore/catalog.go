package mediastore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Type classifies a media file by its extension.
type Type string

const (
	TypeImage Type = "image"
	TypeVideo Type = "video"
	TypeNone  Type = "none"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true,
}

// File describes one media file on disk. Name doubles as the stable
// identifier the UI selects by.
type File struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Catalog lists media files in a storage directory and tracks which
// one the operator selected for the next sends.
type Catalog struct {
	mu       sync.RWMutex
	dir      string
	selected string
}

func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

func (c *Catalog) Dir() string {
	return c.dir
}

// List enumerates the known image and video files. Read failures
// yield an empty list rather than an error.
func (c *Catalog) List() []File {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return []File{}
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		mediaType := TypeOf(entry.Name())
		if mediaType == TypeNone {
			continue
		}
		files = append(files, File{
			Path: filepath.Join(c.dir, entry.Name()),
			Name: entry.Name(),
			Type: mediaType,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files
}

// Find returns the catalog entry for a file name.
func (c *Catalog) Find(name string) (File, bool) {
	for _, f := range c.List() {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}

// Select marks a file name as the media to attach to outgoing
// messages. An empty name clears the selection.
func (c *Catalog) Select(name string) {
	c.mu.Lock()
	c.selected = name
	c.mu.Unlock()
}

// Selected returns the currently selected file, if any.
func (c *Catalog) Selected() (File, bool) {
	c.mu.RLock()
	name := c.selected
	c.mu.RUnlock()
	if name == "" {
		return File{}, false
	}
	return c.Find(name)
}

// SelectedName returns the raw selected file name for status reporting.
func (c *Catalog) SelectedName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// SaveUpload stores uploaded bytes under the catalog directory and
// returns the resulting entry.
func (c *Catalog) SaveUpload(name string, data []byte) (File, error) {
	name = filepath.Base(name)
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return File{}, err
	}
	path := filepath.Join(c.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return File{}, err
	}
	return File{Path: path, Name: name, Type: TypeOf(name)}, nil
}

// TypeOf classifies a file name by extension.
func TypeOf(name string) Type {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case imageExtensions[ext]:
		return TypeImage
	case videoExtensions[ext]:
		return TypeVideo
	default:
		return TypeNone
	}
}
