package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	if got := RequestID(ctx); got != "" {
		t.Errorf("RequestID(empty) = %q", got)
	}
	ctx = WithRequestID(ctx, "01HV6Z")
	if got := RequestID(ctx); got != "01HV6Z" {
		t.Errorf("RequestID = %q, want 01HV6Z", got)
	}
}

func TestWithContext_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "debug", Output: &buf})

	ctx := WithRequestID(context.Background(), "01HV6Z")
	l.WithContext(ctx).Debug("api request", "path", "users/me")
	if !strings.Contains(buf.String(), "request_id=01HV6Z") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	l.With("component", "api").WithContext(ctx).Debug("api response")
	out := buf.String()
	if !strings.Contains(out, "request_id=01HV6Z") || !strings.Contains(out, "component=api") {
		t.Errorf("output = %q", out)
	}

	buf.Reset()
	l.Debug("no context")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("request_id without context: %q", buf.String())
	}
}
