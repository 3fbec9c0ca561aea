package token

import (
	"bytes"
	"strings"
	"testing"
)

func TestRandomBytes(t *testing.T) {
	for _, n := range []int{0, 16, 32} {
		b, err := RandomBytes(n)
		if err != nil {
			t.Fatalf("RandomBytes(%d) error = %v", n, err)
		}
		if len(b) != n {
			t.Errorf("RandomBytes(%d) len = %d", n, len(b))
		}
	}
}

func TestRandomBytes_Uniqueness(t *testing.T) {
	a, _ := RandomBytes(32)
	b, _ := RandomBytes(32)
	if bytes.Equal(a, b) {
		t.Error("two generated keys should differ")
	}
}

func TestHash(t *testing.T) {
	// echo -n abc | sha256sum
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Hash("abc"); got != want {
		t.Errorf("Hash(abc) = %q, want %q", got, want)
	}
}

func TestFingerprint(t *testing.T) {
	if Fingerprint("") != "" {
		t.Error("empty token should have no fingerprint")
	}

	fp := Fingerprint("abc")
	if fp != "sha256:ba7816bf8f01" {
		t.Errorf("Fingerprint(abc) = %q", fp)
	}
	if strings.Contains(fp, "abc") {
		t.Error("fingerprint should not contain the token")
	}
	if Fingerprint("abc") == Fingerprint("abd") {
		t.Error("different tokens should have different fingerprints")
	}
}
