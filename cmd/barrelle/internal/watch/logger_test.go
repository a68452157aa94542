package watch

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogger_Ready(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Writer: &buf})

	l.Ready(12, "/work/src")

	out := buf.String()
	if !strings.Contains(out, "barrelle: watching 12 directories in /work/src") {
		t.Errorf("output missing watching line: %q", out)
	}
	if !strings.Contains(out, "barrelle: ready") {
		t.Errorf("output missing ready line: %q", out)
	}
}

func TestLogger_ReadyJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Writer: &buf, JSON: true})

	l.Ready(3, "/work/src")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if event["event"] != "ready" {
		t.Errorf("event = %v, want ready", event["event"])
	}
	if event["directories"] != float64(3) {
		t.Errorf("directories = %v, want 3", event["directories"])
	}
	if event["path"] != "/work/src" {
		t.Errorf("path = %v, want /work/src", event["path"])
	}
}

func TestLogger_FileChangedVerboseOnly(t *testing.T) {
	var quiet bytes.Buffer
	l := NewLogger(LoggerConfig{Writer: &quiet})
	l.FileChanged("src/alpha.ts", ChangeModified)
	if quiet.Len() != 0 {
		t.Errorf("non-verbose logger wrote: %q", quiet.String())
	}

	var loud bytes.Buffer
	l = NewLogger(LoggerConfig{Writer: &loud, Verbose: true})
	l.FileChanged("src/alpha.ts", ChangeModified)
	if !strings.Contains(loud.String(), "src/alpha.ts") {
		t.Errorf("verbose output missing path: %q", loud.String())
	}
}

func TestLogger_Updating(t *testing.T) {
	tests := []struct {
		name string
		dirs []string
		want string
	}{
		{"single directory", []string{"src/api"}, "regenerating src/api..."},
		{"multiple directories", []string{"src/api", "src/models", "lib"}, "regenerating 3 directories..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(LoggerConfig{Writer: &buf})

			l.Updating(tt.dirs)

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q missing %q", buf.String(), tt.want)
			}
		})
	}
}

func TestLogger_UpdatedJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Writer: &buf, JSON: true})

	l.Updated("src/api/index.ts")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if event["event"] != "updated" {
		t.Errorf("event = %v, want updated", event["event"])
	}
	if event["barrel"] != "src/api/index.ts" {
		t.Errorf("barrel = %v, want src/api/index.ts", event["barrel"])
	}
}

func TestLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Writer: &buf})

	l.Error(errors.New("something failed"))

	if !strings.Contains(buf.String(), "error: something failed") {
		t.Errorf("output missing error message: %q", buf.String())
	}
}

func TestLogger_Stats(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Writer: &buf})

	l.Updated("src/index.ts")
	l.Updated("lib/index.ts")
	l.Error(errors.New("boom"))

	stats := l.Stats()
	if stats.UpdateCount != 2 {
		t.Errorf("UpdateCount = %d, want 2", stats.UpdateCount)
	}
	if stats.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", stats.ErrorCount)
	}
}

func TestLogger_Shutdown(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Writer: &buf})

	l.Updated("src/index.ts")
	l.Shutdown()

	if !strings.Contains(buf.String(), "shutting down (1 updates, 0 errors)") {
		t.Errorf("output missing shutdown summary: %q", buf.String())
	}
}

func TestLogger_NoColorForNonTTY(t *testing.T) {
	// bytes.Buffer is not a terminal, so color codes must never appear.
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Writer: &buf, Verbose: true})

	l.FileChanged("src/alpha.ts", ChangeAdded)
	l.Updated("src/index.ts")
	l.Error(errors.New("boom"))

	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("non-TTY output contains ANSI codes: %q", buf.String())
	}
}
