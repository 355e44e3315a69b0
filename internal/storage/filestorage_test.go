package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAttachment_WritesFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "attachments")
	fs, err := NewFileStorage(root)
	require.NoError(t, err)

	data := []byte("jpeg-bytes")
	storedPath, err := fs.SaveAttachment(42, "photo.jpg", data)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(storedPath, filepath.ToSlash(root)+"/42_"))
	assert.True(t, strings.HasSuffix(storedPath, "_photo.jpg"))
	assert.NotContains(t, storedPath, "\\")

	written, err := os.ReadFile(filepath.FromSlash(storedPath))
	require.NoError(t, err)
	assert.Equal(t, data, written)
}

func TestSaveAttachment_SameNameDoesNotCollide(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	first, err := fs.SaveAttachment(1, "doc.pdf", []byte("v1"))
	require.NoError(t, err)
	second, err := fs.SaveAttachment(1, "doc.pdf", []byte("v2"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	v1, err := os.ReadFile(filepath.FromSlash(first))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v1)
}

func TestSaveAttachment_SanitizesFilename(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFileStorage(root)
	require.NoError(t, err)

	storedPath, err := fs.SaveAttachment(7, "../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(storedPath, "_passwd"))
	assert.True(t, strings.HasPrefix(storedPath, filepath.ToSlash(root)))

	storedPath, err = fs.SaveAttachment(7, "name\nwith\rnewlines.txt", []byte("x"))
	require.NoError(t, err)
	assert.NotContains(t, storedPath, "\n")
	assert.NotContains(t, storedPath, "\r")

	storedPath, err = fs.SaveAttachment(7, "", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(storedPath, "_attachment"))
}

func TestNewFileStorage_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "dir")
	_, err := NewFileStorage(root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
