package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Set("Hola {{name}}, tu número es {{phone}}.")

	result := s.Render(map[string]string{"name": "Ana", "phone": "5491122223333"})
	assert.Equal(t, "Hola Ana, tu número es 5491122223333.", result)
}

func TestRenderCaseInsensitivePlaceholders(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Set("Hola {{Name}} {{NAME}} {{name}}")

	result := s.Render(map[string]string{"name": "Ana"})
	assert.Equal(t, "Hola Ana Ana Ana", result)
}

func TestRenderEmptyValueStillSubstitutes(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Set("Hola {{name}}, saludos")

	result := s.Render(map[string]string{"name": ""})
	assert.Equal(t, "Hola , saludos", result)
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Set("Hola {{name}}, código {{codigo}}")

	result := s.Render(map[string]string{"name": "Ana"})
	assert.Equal(t, "Hola Ana, código {{codigo}}", result)
}

func TestRenderTrimsResult(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Set("  {{name}}  ")

	assert.Equal(t, "Ana", s.Render(map[string]string{"name": "Ana"}))
}

func TestRenderDoesNotMutateTemplate(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Set("Hola {{name}}")
	s.Render(map[string]string{"name": "Ana"})
	assert.Equal(t, "Hola {{name}}", s.Get())
}

func TestRequiredVariables(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Set("{{name}} y {{phone}} y otra vez {{name}}")

	assert.Equal(t, []string{"name", "phone"}, s.RequiredVariables())
}

func TestRequiredVariablesEmptyTemplate(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.Empty(t, s.RequiredVariables())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "promo.txt"), []byte("Hola {{name}}"), 0o644))

	s := NewStore(dir)
	text, err := s.LoadFromFile("promo.txt")
	require.NoError(t, err)
	assert.Equal(t, "Hola {{name}}", text)
	assert.Equal(t, "Hola {{name}}", s.Get())
}

func TestLoadFromFileStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "promo.txt"), []byte("x"), 0o644))

	s := NewStore(dir)
	_, err := s.LoadFromFile("../../promo.txt")
	require.NoError(t, err, "only the base name is honored")
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("n"), 0o644))

	s := NewStore(dir)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, s.ListFiles())
}

func TestListFilesMissingDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, s.ListFiles())
}

func TestExtractFirstName(t *testing.T) {
	assert.Equal(t, "Ana", ExtractFirstName("Ana García"))
	assert.Equal(t, "Ana", ExtractFirstName("  Ana  "))
	assert.Equal(t, "", ExtractFirstName(""))
	assert.Equal(t, "", ExtractFirstName("   "))
}
