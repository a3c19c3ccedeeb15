package logger

import (
	"log/slog"
)

// Standard field keys. Use these consistently so runs can be grepped and
// aggregated.
const (
	KeyTraceID = "trace_id"
	KeyRunID   = "run_id"
	KeyStage   = "stage"
	KeyDryRun  = "dry_run"

	// Shares and datasets
	KeyPathName = "path_name"
	KeyPath     = "path"
	KeyShareID  = "share_id"
	KeyDataset  = "dataset"
	KeyPrefix   = "prefix"
	KeySource   = "source"
	KeyCount    = "count"

	// Appliance API
	KeyMethod = "method"
	KeyURL    = "url"
	KeyStatus = "status"

	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyConfig     = "config"
)

// PathName returns a slog.Attr for a share's dataset path name
func PathName(name string) slog.Attr {
	return slog.String(KeyPathName, name)
}

// Path returns a slog.Attr for a mount path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// ShareID returns a slog.Attr for an appliance share id
func ShareID(id int) slog.Attr {
	return slog.Int(KeyShareID, id)
}

// Stage returns a slog.Attr for a reconciliation stage
func Stage(name string) slog.Attr {
	return slog.String(KeyStage, name)
}

// Count returns a slog.Attr for a number of items
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Status returns a slog.Attr for an HTTP status code
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// DurationMs returns a slog.Attr for a duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error. A nil error yields an empty attr,
// which handlers drop.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
