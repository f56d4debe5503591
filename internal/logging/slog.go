package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"time"
)

// Attribute keys shared by every gdocs log record.
const (
	KeyOperation     = "operation"
	KeyService       = "service"
	KeyFileID        = "file_id"
	KeySpreadsheetID = "spreadsheet_id"
	KeyDuration      = "duration"
	KeyStatus        = "status"
	KeyError         = "error"
	KeyCredentials   = "credentials"
	KeyPath          = "path"
)

// New returns a text logger writing to w at info level, or debug level
// when debug is set.
func New(w io.Writer, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }

func Service(svc string) slog.Attr { return slog.String(KeyService, svc) }

func FileID(id string) slog.Attr { return slog.String(KeyFileID, id) }

func SpreadsheetID(id string) slog.Attr { return slog.String(KeySpreadsheetID, id) }

func Duration(d time.Duration) slog.Attr { return slog.Duration(KeyDuration, d) }

// Path is a local file path written or read by the CLI.
func Path(path string) slog.Attr { return slog.String(KeyPath, path) }

// Outcome is status=success, or status=error when err is set.
func Outcome(err error) slog.Attr {
	if err != nil {
		return slog.String(KeyStatus, "error")
	}
	return slog.String(KeyStatus, "success")
}

// Err is the error message, or an empty attribute that handlers drop when
// err is nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// SanitizePath reduces a credential path to its base name so directory
// layouts stay out of logs and resources.
func SanitizePath(path string) string {
	if path == "" {
		return "<none>"
	}
	return filepath.Base(path)
}

// Credentials is the sanitized credential path.
func Credentials(path string) slog.Attr {
	return slog.String(KeyCredentials, SanitizePath(path))
}
