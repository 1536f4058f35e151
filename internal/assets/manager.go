// Package assets manages uploaded image files for diary entries. Files live
// under a configurable root directory and are referenced by URL paths of the
// form /uploads/images/<name>; only those paths are ever stored in the
// database.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the public path prefix under which stored images are served.
const URLPrefix = "/uploads/images/"

// Upload is an image payload received from a client.
type Upload struct {
	Filename string
	Data     []byte
}

// Manager stores and removes image files under a single root directory.
type Manager struct {
	root string
}

// New creates a Manager rooted at dir, creating the directory if needed.
func New(dir string) (*Manager, error) {
	if dir == "" {
		return nil, fmt.Errorf("assets: root directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Manager{root: dir}, nil
}

// Root returns the directory files are written to.
func (m *Manager) Root() string { return m.root }

// Save writes the upload to disk under a generated name and returns the URL
// path to store alongside the diary. The client-supplied filename contributes
// only its extension; path components are stripped.
func (m *Manager) Save(up Upload) (string, error) {
	name := uuid.NewString() + sanitizeExt(up.Filename)
	if err := os.WriteFile(filepath.Join(m.root, name), up.Data, 0o644); err != nil {
		return "", err
	}
	return URLPrefix + name, nil
}

// Remove deletes the file behind a stored URL. A missing file is not an
// error; the reference may outlive the file. URLs outside URLPrefix are
// ignored.
func (m *Manager) Remove(url string) error {
	name, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || name == "" {
		return nil
	}
	name = filepath.Base(filepath.ToSlash(name))
	err := os.Remove(filepath.Join(m.root, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func sanitizeExt(filename string) string {
	base := filepath.Base(filepath.ToSlash(filename))
	ext := strings.ToLower(filepath.Ext(base))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ""
	}
}
