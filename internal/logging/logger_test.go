package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLogger_NonTerminalWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.Info().Str("folder", "10003").Msg("Section rendered")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if entry["folder"] != "10003" || entry["message"] != "Section rendered" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf).WithFields(func(c zerolog.Context) zerolog.Context {
		return c.Str("pass_id", "p1")
	})
	l.Warn().Msg("skipped")

	if !bytes.Contains(buf.Bytes(), []byte(`"pass_id":"p1"`)) {
		t.Errorf("expected pass_id field, got %q", buf.String())
	}
	if l.Output() != &buf {
		t.Error("derived logger should keep the parent output")
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}
