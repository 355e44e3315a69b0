// Package storage persists attachment files on disk. The stored path it
// returns is embedded verbatim in chat blobs, so the root must match the
// prefix the codec and the static file server agree on.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStorage writes attachment files under a fixed root directory.
type FileStorage struct {
	root string
}

// NewFileStorage creates a FileStorage rooted at root, creating the
// directory if needed.
func NewFileStorage(root string) (*FileStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create attachment dir: %w", err)
	}
	return &FileStorage{root: root}, nil
}

// SaveAttachment writes the file bytes and returns the stored path, e.g.
// "app/chats/attachments/42_1f2e3d4c_photo.jpg". A random infix keeps
// concurrent uploads with the same name from colliding.
func (s *FileStorage) SaveAttachment(bidID int64, filename string, data []byte) (string, error) {
	name := fmt.Sprintf("%d_%s_%s", bidID, uuid.NewString()[:8], sanitizeName(filename))
	path := filepath.Join(s.root, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}
	return filepath.ToSlash(path), nil
}

// sanitizeName strips any directory components and characters that would
// break the newline-delimited blob format.
func sanitizeName(filename string) string {
	name := filepath.Base(filepath.ToSlash(filename))
	name = strings.ReplaceAll(name, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	if name == "" || name == "." || name == "/" {
		name = "attachment"
	}
	return name
}
