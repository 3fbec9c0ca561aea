package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestMask(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc", "***"},
		{"abcdef", "***"},
		{"Y3QMGX3PJ3WLRL2YRTQGQ6KRHU", "Y3Q...RHU"},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSecretKey(t *testing.T) {
	for _, key := range []string{"password", "accessToken", "Authorization", "client_secret", "Cookie"} {
		if !SecretKey(key) {
			t.Errorf("SecretKey(%q) = false", key)
		}
	}
	for _, key := range []string{"email", "path", "request_id", "status"} {
		if SecretKey(key) {
			t.Errorf("SecretKey(%q) = true", key)
		}
	}
}

func TestRedaction(t *testing.T) {
	tests := []struct {
		name    string
		args    []any
		want    string
		notWant string
	}{
		{
			name:    "bearer value under any key",
			args:    []any{"header", "Bearer Y3QMGX3PJ3WLRL2YRTQGQ6KRHU"},
			want:    "header=\"Bearer Y3Q...RHU\"",
			notWant: "PJ3WLRL2",
		},
		{
			name:    "secret key",
			args:    []any{"password", "pa55word"},
			want:    "password=[REDACTED]",
			notWant: "pa55word",
		},
		{
			name:    "token key",
			args:    []any{"accessToken", "Y3QMGX3PJ3WLRL2YRTQGQ6KRHU"},
			want:    "accessToken=[REDACTED]",
			notWant: "Y3QMGX",
		},
		{
			name: "plain value",
			args: []any{"email", "alice@example.com"},
			want: "email=alice@example.com",
		},
		{
			name: "empty secret left alone",
			args: []any{"token", ""},
			want: "token=\"\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, _ := New(Config{Level: "debug", Output: &buf})
			l.Debug("event", tt.args...)

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
			if tt.notWant != "" && strings.Contains(out, tt.notWant) {
				t.Errorf("output %q leaks %q", out, tt.notWant)
			}
		})
	}
}
