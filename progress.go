package pak

// ProgressEvent represents a progress update during pack, scan or extraction.
type ProgressEvent struct {
	// Stage identifies the current phase of the operation.
	Stage ProgressStage

	// Path is the entry currently being processed, if applicable.
	Path string

	// BytesDone is the number of archive bytes written or read so far.
	BytesDone uint64

	// FilesDone is the number of files completed.
	FilesDone int

	// FilesTotal is the total number of files.
	// Zero indicates the total is unknown (e.g., during enumeration).
	FilesTotal int
}

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

// Progress stages for pack and extraction operations.
const (
	// StageEnumerating indicates the operation is walking the directory tree.
	StageEnumerating ProgressStage = iota

	// StagePacking indicates a file has been compressed and written.
	StagePacking

	// StageFinalizing indicates the header is being patched.
	StageFinalizing

	// StageScanning indicates the record chain is being read.
	StageScanning

	// StageExtracting indicates a file has been extracted.
	StageExtracting
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageEnumerating:
		return "enumerating"
	case StagePacking:
		return "packing"
	case StageFinalizing:
		return "finalizing"
	case StageScanning:
		return "scanning"
	case StageExtracting:
		return "extracting"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during operations.
// Calls are made from the goroutine running the operation.
type ProgressFunc func(ProgressEvent)

func reportProgress(fn ProgressFunc, ev ProgressEvent) {
	if fn != nil {
		fn(ev)
	}
}
