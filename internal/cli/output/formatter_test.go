package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type sample struct {
	Email     string `json:"email" yaml:"email"`
	Activated bool   `json:"activated" yaml:"activated"`
	Secret    string `json:"-" yaml:"-" table:"-"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"", FormatTable, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json: wrong formatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("yaml: wrong formatter")
	}
	if _, ok := NewFormatter("other").(*TableFormatter); !ok {
		t.Error("default: want table formatter")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, sample{Email: "a@b.c", Activated: true, Secret: "x"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["email"] != "a@b.c" || got["activated"] != true {
		t.Errorf("decoded = %v", got)
	}
	if _, ok := got["Secret"]; ok {
		t.Error("untagged secret field was written")
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("JSON output not indented")
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, sample{Email: "a@b.c", Activated: true}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "email: a@b.c\nactivated: true\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestYAMLFormatter_Nested(t *testing.T) {
	data := map[string]any{"log": map[string]string{"level": "warn"}}
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "log:\n  level: warn\n" {
		t.Errorf("Format() = %q", buf.String())
	}
}
