package pak

import "log/slog"

// DefaultMaxFileSize is the default per-entry size limit (256MB), applied to
// both the stored and the decompressed payload.
const DefaultMaxFileSize = 256 << 20

// readConfig holds configuration for reading archives.
type readConfig struct {
	logger      *slog.Logger
	strict      bool
	maxFileSize uint64
	progress    ProgressFunc
}

// ReadOption configures a Reader.
type ReadOption func(*readConfig)

// ReadWithLogger sets the logger used while scanning and extracting.
func ReadWithLogger(logger *slog.Logger) ReadOption {
	return func(cfg *readConfig) {
		cfg.logger = logger
	}
}

// ReadWithStrictOffsets makes Entries verify that each record's data offset
// sits right after its trailer and that each chain offset points at the
// record physically before it. Violations fail with ErrOffsetMismatch.
//
// The game client does not check either, so this is off by default.
func ReadWithStrictOffsets(strict bool) ReadOption {
	return func(cfg *readConfig) {
		cfg.strict = strict
	}
}

// ReadWithMaxFileSize limits the stored and decompressed size of a single
// entry. Set limit to 0 to disable the limit.
func ReadWithMaxFileSize(limit uint64) ReadOption {
	return func(cfg *readConfig) {
		cfg.maxFileSize = limit
	}
}

// ReadWithProgress sets a callback that receives an event per scanned record.
func ReadWithProgress(fn ProgressFunc) ReadOption {
	return func(cfg *readConfig) {
		cfg.progress = fn
	}
}
