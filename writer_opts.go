package pak

import (
	"log/slog"

	"github.com/exectails/huskypak/internal/codec"
)

// DefaultMaxFiles is the default limit used when no WriteWithMaxFiles option is set.
const DefaultMaxFiles = 200_000

// DefaultCompressionLevel is the zlib level used when none is configured. The
// game's own tooling packs at the fastest setting.
const DefaultCompressionLevel = codec.BestSpeed

// writeConfig holds configuration for archive creation.
type writeConfig struct {
	level     int
	logger    *slog.Logger
	progress  ProgressFunc
	maxFiles  int
	separator rune
}

func newWriteConfig(opts []WriteOption) writeConfig {
	cfg := writeConfig{level: DefaultCompressionLevel, separator: '/'}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WriteOption configures archive creation.
type WriteOption func(*writeConfig)

// WriteWithCompressionLevel sets the zlib compression level (-2 to 9).
func WriteWithCompressionLevel(level int) WriteOption {
	return func(cfg *writeConfig) {
		cfg.level = level
	}
}

// WriteWithLogger sets the logger used during archive creation.
func WriteWithLogger(logger *slog.Logger) WriteOption {
	return func(cfg *writeConfig) {
		cfg.logger = logger
	}
}

// WriteWithProgress sets a callback for progress updates during creation.
func WriteWithProgress(fn ProgressFunc) WriteOption {
	return func(cfg *writeConfig) {
		cfg.progress = fn
	}
}

// WriteWithMaxFiles limits the number of files included in the archive.
// Zero uses DefaultMaxFiles. Negative means no limit.
func WriteWithMaxFiles(n int) WriteOption {
	return func(cfg *writeConfig) {
		cfg.maxFiles = n
	}
}

// WriteWithSeparator sets the separator Create uses between path elements of
// entry names. The default is '/'. Archives built by the Windows
// tooling use '\\'.
func WriteWithSeparator(sep rune) WriteOption {
	return func(cfg *writeConfig) {
		cfg.separator = sep
	}
}
