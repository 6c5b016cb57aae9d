package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AALVAREZG/contraidos-processor/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8000, cfg.Server.Port)
				assert.Equal(t, DefaultMaxUploadSize, cfg.Upload.MaxUploadSize)
				assert.Equal(t, []string{".xlsx", ".xls"}, cfg.Upload.AllowedExtensions)
				assert.Equal(t, 30, cfg.Upload.RetentionDays)
				assert.False(t, cfg.Analysis.CancellationRule)
				assert.Equal(t, 30*time.Second, cfg.Analysis.Timeout)
				assert.Equal(t, DefaultAllowedOrigins, cfg.Security.AllowedOrigins)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9001
  read_timeout: 5s
upload:
  retention_days: 7
analysis:
  cancellation_rule: true
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9001, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 7, cfg.Upload.RetentionDays)
				assert.True(t, cfg.Analysis.CancellationRule)
				assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
			},
		},
		{
			name: "env overrides file",
			file: "server:\n  port: 9001\n",
			env: map[string]string{
				"CONTRAIDOS_SERVER_PORT":                "9100",
				"CONTRAIDOS_UPLOAD_ALLOWED_EXTENSIONS":  "xlsx",
				"CONTRAIDOS_SECURITY_ALLOWED_ORIGINS":   "http://a.test,http://b.test",
				"CONTRAIDOS_ANALYSIS_CANCELLATION_RULE": "true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9100, cfg.Server.Port)
				assert.Equal(t, []string{".xlsx"}, cfg.Upload.AllowedExtensions)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Analysis.CancellationRule)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"CONTRAIDOS_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "invalid upload size",
			file:    "upload:\n  max_upload_size: -1\n",
			wantErr: "invalid max upload size",
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"CONTRAIDOS_SERVER_PORT": "eighty"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "malformed file",
			file:    "server: [",
			wantErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			t.Setenv("CONTRAIDOS_PATHS_BASE_DIR", t.TempDir())

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				var appErr *apperrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "exports")

	cfg := Default()
	cfg.Paths.BaseDir = base
	cfg.Paths.ExportDir = abs
	cfg.Paths.LogsDir = ""
	require.NoError(t, cfg.resolvePaths())

	paths := cfg.GetPaths()
	assert.Equal(t, filepath.Join(base, "uploads"), paths.UploadDir)
	assert.Equal(t, abs, paths.ExportDir)
	assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
	assert.Equal(t, filepath.Join(base, "logs", "app.log"), cfg.LogFile())

	require.NoError(t, paths.EnsureDirectories())
	for _, dir := range []string{paths.UploadDir, paths.ExportDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestUploadConfigAllowsExtension(t *testing.T) {
	u := Default().Upload

	tests := []struct {
		ext  string
		want bool
	}{
		{".xlsx", true},
		{".XLS", true},
		{".csv", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, u.AllowsExtension(tt.ext), tt.ext)
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8000}
	assert.Equal(t, "127.0.0.1:8000", s.Addr())
	assert.Equal(t, ":8000", ServerConfig{Port: 8000}.Addr())
}
