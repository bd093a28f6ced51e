package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pak "github.com/exectails/huskypak"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "huskypak.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig(viper.New(), writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, pak.DefaultCompressionLevel, cfg.CompressionLevel)
	assert.Equal(t, '/', cfg.separator())
	assert.Equal(t, uint64(pak.DefaultMaxFileSize), cfg.MaxFileSize)

	level, err := cfg.level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig(viper.New(), writeConfig(t, `
output_dir: extracted
compression_level: 9
path_separator: '\'
log_level: debug
max_file_size: 1024
`))
	require.NoError(t, err)
	assert.Equal(t, "extracted", cfg.OutputDir)
	assert.Equal(t, 9, cfg.CompressionLevel)
	assert.Equal(t, '\\', cfg.separator())
	assert.Equal(t, uint64(1024), cfg.MaxFileSize)

	level, err := cfg.level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("HUSKYPAK_OUTPUT_DIR", "from-env")

	cfg, err := loadConfig(viper.New(), writeConfig(t, "output_dir: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OutputDir)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"separator", "path_separator: '|'\n"},
		{"empty separator", "path_separator: ''\n"},
		{"log level", "log_level: loud\n"},
		{"malformed yaml", "output_dir: [unterminated\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := loadConfig(viper.New(), writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
