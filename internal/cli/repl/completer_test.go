package repl

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		line string
		want []string
	}{
		{"su", []string{"submit"}},
		{"h", []string{"help", "history"}},
		{"open /pa", []string{"open /password-reset", "open /password-update"}},
		{"open /d", []string{"open /dashboard"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := c.Complete(tt.line); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestCompleter_Callback(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		name   string
		line   string
		pos    int
		key    rune
		want   string
		wantOK bool
	}{
		{"unique", "su", 2, '\t', "submit ", true},
		{"common prefix", "open /pa", 8, '\t', "open /password-", true},
		{"ambiguous no progress", "h", 1, '\t', "", false},
		{"not tab", "su", 2, 'x', "", false},
		{"cursor mid-line", "su", 1, '\t', "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pos, ok := c.Callback(tt.line, tt.pos, tt.key)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Callback() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
			if ok && pos != len(got) {
				t.Errorf("pos = %d, want %d", pos, len(got))
			}
		})
	}
}
