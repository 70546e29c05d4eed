package mediastore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		expected Type
	}{
		{"photo.jpg", TypeImage},
		{"photo.JPEG", TypeImage},
		{"sticker.webp", TypeImage},
		{"anim.gif", TypeImage},
		{"clip.mp4", TypeVideo},
		{"clip.MOV", TypeVideo},
		{"old.avi", TypeVideo},
		{"doc.pdf", TypeNone},
		{"noextension", TypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeOf(tt.name))
		})
	}
}

func newTestCatalog(t *testing.T, files ...string) *Catalog {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	return NewCatalog(dir)
}

func TestListFiltersAndClassifies(t *testing.T) {
	c := newTestCatalog(t, "b.mp4", "a.jpg", "doc.pdf", "readme.txt")

	files := c.List()
	require.Len(t, files, 2, "non-media files are filtered out")
	assert.Equal(t, "a.jpg", files[0].Name)
	assert.Equal(t, TypeImage, files[0].Type)
	assert.Equal(t, "b.mp4", files[1].Name)
	assert.Equal(t, TypeVideo, files[1].Type)
}

func TestListMissingDir(t *testing.T) {
	c := NewCatalog(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, c.List())
}

func TestSelectAndClear(t *testing.T) {
	c := newTestCatalog(t, "a.jpg")

	_, ok := c.Selected()
	assert.False(t, ok)

	c.Select("a.jpg")
	selected, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "a.jpg", selected.Name)
	assert.Equal(t, TypeImage, selected.Type)
	assert.Equal(t, "a.jpg", c.SelectedName())

	c.Select("")
	_, ok = c.Selected()
	assert.False(t, ok)
	assert.Empty(t, c.SelectedName())
}

func TestSelectedMissingFileOnDisk(t *testing.T) {
	c := newTestCatalog(t)
	c.Select("ghost.jpg")
	_, ok := c.Selected()
	assert.False(t, ok, "a selection whose file disappeared resolves to nothing")
}

func TestSaveUpload(t *testing.T) {
	c := newTestCatalog(t)

	saved, err := c.SaveUpload("photo.jpg", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "photo.jpg", saved.Name)
	assert.Equal(t, TypeImage, saved.Type)

	found, ok := c.Find("photo.jpg")
	require.True(t, ok)
	assert.Equal(t, saved.Path, found.Path)
}
