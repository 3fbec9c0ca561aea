package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_StartStop(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Submitting")
	s.interval = 5 * time.Millisecond

	s.Start()
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Submitting") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("output not cleared at stop: %q", out)
	}
}

func TestSpinner_Results(t *testing.T) {
	tests := []struct {
		name string
		stop func(*Spinner)
		want string
	}{
		{"success", func(s *Spinner) { s.Success("Logged in") }, "✓ Logged in\n"},
		{"fail", func(s *Spinner) { s.Fail("Invalid credentials") }, "✗ Invalid credentials\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf syncBuffer
			s := NewSpinner(&buf, "Working")
			s.Start()
			tt.stop(s)

			if out := buf.String(); !strings.HasSuffix(out, tt.want) {
				t.Errorf("output = %q, want suffix %q", out, tt.want)
			}
		})
	}
}

func TestSpinner_StopTwice(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Working")
	s.Start()
	s.Stop()
	s.Fail("ignored")

	if strings.Contains(buf.String(), "ignored") {
		t.Error("second stop wrote output")
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf syncBuffer
	done := make(chan struct{})
	go func() {
		NewSpinner(&buf, "Idle").Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() without Start() blocked")
	}
}
