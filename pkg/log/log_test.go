package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newBufferLogger(level Level, f Formatter) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(level), WithFormatter(f), WithOutput(NewWriterOutput(&buf)))
	return l, &buf
}

func TestTextFormatterFields(t *testing.T) {
	l, buf := newBufferLogger(InfoLevel, &TextFormatter{DisableTimestamp: true})
	l.With(Component("window")).Info("loaded", Int("nodes", 3), Str("dir", "prev"))

	got := buf.String()
	want := "INFO  loaded component=window dir=prev nodes=3\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestLevelGate(t *testing.T) {
	l, buf := newBufferLogger(WarnLevel, &TextFormatter{DisableTimestamp: true})
	l.Info("dropped")
	l.Debugf("dropped %d", 1)
	l.Warn("kept")
	if strings.Contains(buf.String(), "dropped") {
		t.Fatalf("below-level entries leaked: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn entry missing: %q", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	l, buf := newBufferLogger(DebugLevel, &JSONFormatter{})
	l.WithError(errors.New("boom")).Error("read failed", Uint64("boundary", 7))

	var obj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("unmarshal: %v (%q)", err, buf.String())
	}
	if obj["msg"] != "read failed" || obj["level"] != "ERROR" || obj["error"] != "boom" {
		t.Fatalf("unexpected entry: %v", obj)
	}
	if obj["boundary"].(float64) != 7 {
		t.Fatalf("boundary field: %v", obj["boundary"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"loud", InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err=%v wantErr=%v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseLevel(%q)=%v want %v", tt.in, got, tt.want)
		}
	}
}

func TestSampling(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(
		WithFormatter(&TextFormatter{DisableTimestamp: true}),
		WithOutput(NewWriterOutput(&buf)),
		WithSampling(1, 2),
	)
	for i := 0; i < 5; i++ {
		l.Info("tick")
	}
	// n=0 is the initial allowance; after it every 2nd entry passes (n=1, n=3).
	if got := strings.Count(buf.String(), "tick"); got != 3 {
		t.Fatalf("want 3 sampled entries, got %d", got)
	}
}

func TestApplyConfigRejectsUnknownFormat(t *testing.T) {
	if _, err := ApplyConfig(&Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := ApplyConfig(&Config{Output: "file"}); err == nil {
		t.Fatalf("expected error for file output without path")
	}
}
