package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTextFormatter(t *testing.T) {
	f := &TextFormatter{}

	out, err := f.Format("hello")
	if err != nil {
		t.Fatalf("Format() error = %v, want nil", err)
	}
	if string(out) != "hello\n" {
		t.Errorf("Format() = %q, want %q", out, "hello\n")
	}
}

func TestTextFormatterWriter(t *testing.T) {
	f := &TextFormatter{}
	var buf bytes.Buffer

	if err := f.FormatTo(&buf, 42); err != nil {
		t.Fatalf("FormatTo() error = %v, want nil", err)
	}
	if buf.String() != "42\n" {
		t.Errorf("FormatTo() wrote %q, want %q", buf.String(), "42\n")
	}
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{Indent: true}
	data := map[string]int{"valid": 3, "invalid": 1}

	out, err := f.Format(data)
	if err != nil {
		t.Fatalf("Format() error = %v, want nil", err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["valid"] != 3 || decoded["invalid"] != 1 {
		t.Errorf("round-trip = %v, want %v", decoded, data)
	}
	if !strings.Contains(string(out), "\n") {
		t.Error("indented output should span multiple lines")
	}
}

func TestJSONFormatterWriter(t *testing.T) {
	f := &JSONFormatter{}
	var buf bytes.Buffer

	if err := f.FormatTo(&buf, []string{"a", "b"}); err != nil {
		t.Fatalf("FormatTo() error = %v, want nil", err)
	}
	if strings.TrimSpace(buf.String()) != `["a","b"]` {
		t.Errorf("FormatTo() wrote %q", buf.String())
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(FormatJSON) did not return a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("NewFormatter(FormatText) did not return a TextFormatter")
	}
	if _, ok := NewFormatter("bogus").(*TextFormatter); !ok {
		t.Error("NewFormatter with unknown format should fall back to text")
	}
}
