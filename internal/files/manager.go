package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned when no file matches an identifier
	ErrNotFound = errors.New("file not found")
	// ErrInvalidID is returned for identifiers that could escape the directory
	ErrInvalidID = errors.New("invalid file id")
)

// Manager owns one directory of id-named files
type Manager struct {
	dir    string
	logger *slog.Logger
}

// NewManager creates a manager rooted at dir
func NewManager(dir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		dir:    dir,
		logger: logger.With(slog.String("component", "files"), slog.String("dir", dir)),
	}
}

// Dir returns the managed directory
func (m *Manager) Dir() string {
	return m.dir
}

// PathFor returns the path a file with this id and extension is stored at
func (m *Manager) PathFor(id, ext string) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}
	return filepath.Join(m.dir, id+strings.ToLower(ext)), nil
}

// Save streams r into <dir>/<id><ext>. The content is written to a temporary
// file first and renamed into place, so readers never see a partial file.
func (m *Manager) Save(id, ext string, r io.Reader) (FileInfo, error) {
	path, err := m.PathFor(id, ext)
	if err != nil {
		return FileInfo{}, err
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return FileInfo{}, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(m.dir, ".upload-*")
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return FileInfo{}, fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return FileInfo{}, fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return FileInfo{}, fmt.Errorf("failed to move file into place: %w", err)
	}

	m.logger.Info("file saved",
		slog.String("file", filepath.Base(path)),
		slog.Int64("size_bytes", written))

	return stat(path)
}

// Delete removes the file stored under id with any of the extensions
func (m *Manager) Delete(id string, exts ...string) error {
	path, err := m.Find(id, exts...)
	if err != nil {
		return err
	}

	m.logger.Info("deleting file", slog.String("file", filepath.Base(path)))
	return os.Remove(path)
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
