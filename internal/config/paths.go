package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the resolved, absolute working directories
type Paths struct {
	BaseDir   string
	UploadDir string
	ExportDir string
	LogsDir   string
}

// resolvePaths makes every configured directory absolute. Relative
// directories hang off BaseDir, which defaults to the working directory.
func (c *Config) resolvePaths() error {
	base := c.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %w", err)
	}

	c.Paths.BaseDir = base
	c.Paths.UploadDir = resolveDir(base, c.Paths.UploadDir, DefaultUploadDir)
	c.Paths.ExportDir = resolveDir(base, c.Paths.ExportDir, DefaultExportDir)
	c.Paths.LogsDir = resolveDir(base, c.Paths.LogsDir, DefaultLogsDir)
	return nil
}

func resolveDir(base, dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}

// GetPaths returns the resolved directories
func (c *Config) GetPaths() Paths {
	return Paths{
		BaseDir:   c.Paths.BaseDir,
		UploadDir: c.Paths.UploadDir,
		ExportDir: c.Paths.ExportDir,
		LogsDir:   c.Paths.LogsDir,
	}
}

// EnsureDirectories creates every working directory that does not exist yet
func (p Paths) EnsureDirectories() error {
	for _, dir := range []string{p.UploadDir, p.ExportDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogFile is the path of the application log file
func (c *Config) LogFile() string {
	if filepath.IsAbs(c.Logging.FilePath) {
		return c.Logging.FilePath
	}
	return filepath.Join(c.Paths.LogsDir, c.Logging.FilePath)
}
