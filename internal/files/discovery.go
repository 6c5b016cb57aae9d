package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a stored file
type FileInfo struct {
	Path    string
	Name    string
	ID      string
	Ext     string
	Size    int64
	ModTime time.Time
}

// Find returns the path of the file stored under id, trying the extensions
// in order
func (m *Manager) Find(id string, exts ...string) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}

	for _, ext := range exts {
		path := filepath.Join(m.dir, id+strings.ToLower(ext))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns every stored file, oldest first. Temporary files are skipped.
func (m *Manager) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", m.dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := stat(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			continue
		}
		files = append(files, info)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})
	return files, nil
}

// PurgeOlderThan deletes the files last modified before now minus age and
// returns the names it removed
func (m *Manager) PurgeOlderThan(age time.Duration, now time.Time) ([]string, error) {
	files, err := m.List()
	if err != nil {
		return nil, err
	}

	cutoff := now.Add(-age)
	var removed []string
	for _, f := range files {
		if !f.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("failed to purge file",
				slog.String("file", f.Name),
				slog.String("error", err.Error()))
			continue
		}
		removed = append(removed, f.Name)
	}

	if len(removed) > 0 {
		m.logger.Info("purged old files",
			slog.Int("count", len(removed)),
			slog.Time("cutoff", cutoff))
	}
	return removed, nil
}

func stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	name := info.Name()
	ext := filepath.Ext(name)
	return FileInfo{
		Path:    path,
		Name:    name,
		ID:      strings.TrimSuffix(name, ext),
		Ext:     strings.ToLower(ext),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
