package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record written without debug mode: %q", buf.String())
	}

	New(&buf, true).Debug("shown")
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Errorf("debug record missing in debug mode: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard logger should drop errors too")
	}
}

func TestCallRecord(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("google api call",
		Service("sheets"),
		Operation("values_get"),
		SpreadsheetID("ss-1"),
		Outcome(nil),
		Duration(1500*time.Millisecond),
		Err(nil),
	)

	out := buf.String()
	for _, want := range []string{"service=sheets", "operation=values_get", "spreadsheet_id=ss-1", "status=success", "duration=1.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("record %q missing %s", out, want)
		}
	}
	if strings.Contains(out, "error") {
		t.Errorf("nil error leaked into record %q", out)
	}
}

func TestFailedCallRecord(t *testing.T) {
	var buf bytes.Buffer
	err := errors.New("googleapi: Error 404")
	New(&buf, false).Info("google api call", FileID("f1"), Outcome(err), Err(err))

	out := buf.String()
	for _, want := range []string{"file_id=f1", "status=error", `error="googleapi: Error 404"`} {
		if !strings.Contains(out, want) {
			t.Errorf("record %q missing %s", out, want)
		}
	}
}

func TestExportRecord(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("document exported", FileID("d1"), Path("out/d1.docx"))

	out := buf.String()
	for _, want := range []string{"file_id=d1", "path=out/d1.docx"} {
		if !strings.Contains(out, want) {
			t.Errorf("record %q missing %s", out, want)
		}
	}
}

func TestSanitizePath(t *testing.T) {
	tests := map[string]string{
		"":                                      "<none>",
		"service.json":                          "service.json",
		"/home/user/.config/gdocs/service.json": "service.json",
	}
	for path, want := range tests {
		if got := SanitizePath(path); got != want {
			t.Errorf("SanitizePath(%q) = %q, want %q", path, got, want)
		}
	}

	if got := Credentials("/secret/dir/key.json"); got.Key != KeyCredentials || got.Value.String() != "key.json" {
		t.Errorf("Credentials() = %v, want credentials=key.json", got)
	}
}
