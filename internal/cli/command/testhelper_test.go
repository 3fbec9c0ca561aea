package command

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	testEmail    = "alice@example.com"
	testPassword = "pa55word"
	testToken    = "Y3QMGX3PJ3WLRL2YRTQGQ6KRHU"
)

// fakeAPI is an in-memory authfront API with one account.
type fakeAPI struct {
	*httptest.Server

	mu     sync.Mutex
	expiry time.Time
	calls  map[string]int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		expiry: time.Now().Add(24 * time.Hour).UTC(),
		calls:  make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/tokens/authentication", f.authenticate)
	mux.HandleFunc("/api/v1/tokens/verification/registration", f.message("an email will be sent to you containing registration instructions"))
	mux.HandleFunc("/api/v1/tokens/verification/password-reset", f.message("an email will be sent to you containing password reset instructions"))
	mux.HandleFunc("/api/v1/users", f.createUser)
	mux.HandleFunc("/api/v1/users/me", f.currentUser)
	mux.HandleFunc("/api/v1/users/password", f.updatePassword)
	mux.HandleFunc("/api/v1/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "available",
			"system_info": map[string]string{"environment": "test", "version": "1.0.0"},
		})
	})
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.Method+" "+r.URL.Path]++
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeAPI) authenticate(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)
	if body["email"] != testEmail || body["password"] != testPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid authentication credentials"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"authentication_token": map[string]string{
			"token":  testToken,
			"expiry": f.expiry.Format(time.RFC3339Nano),
		},
	})
}

func (f *fakeAPI) message(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] == "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": map[string]string{"email": "must be provided"}})
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"message": msg})
	}
}

func (f *fakeAPI) createUser(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)
	if body["token"] != "invite" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": map[string]string{"token": "invalid or expired registration token"}})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": map[string]string{"email": body["email"]}})
}

func (f *fakeAPI) currentUser(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or missing authentication token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{"email": testEmail, "created_at": "2024-01-02T03:04:05Z"},
	})
}

func (f *fakeAPI) updatePassword(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)
	if body["token"] != "reset" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": map[string]string{"token": "invalid or expired password reset token"}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "your password was successfully reset"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// cliEnv is a config file and storage directory private to one test.
type cliEnv struct {
	dir    string
	config string
	server string
}

func newCLIEnv(t *testing.T, server string) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	content := "storage:\n  dir: " + filepath.Join(dir, "store") + "\n  watch: false\nlog:\n  level: error\n"
	if err := os.WriteFile(cfg, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return &cliEnv{dir: dir, config: cfg, server: server}
}

// run executes the CLI with stdin as input and returns stdout and
// stderr.
func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(stdin)

	argv := append([]string{"authfront-cli", "--config", e.config}, args...)
	if e.server != "" {
		argv = append([]string{"authfront-cli", "--config", e.config, "--server", e.server}, args...)
	}
	err := app.RunContext(context.Background(), argv)
	return stdout.String(), stderr.String(), err
}

func (e *cliEnv) mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, errOut, err := e.run(t, stdin, args...)
	if err != nil {
		t.Fatalf("%v: %v\nstderr: %s", args, err, errOut)
	}
	return out
}
