package command

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/authfront/internal/core/domain"
	"github.com/yndnr/authfront/internal/core/service"
	"github.com/yndnr/authfront/internal/infra/shutdown"
	"github.com/yndnr/authfront/internal/storage"
	"github.com/yndnr/authfront/internal/telemetry/logger"
	"github.com/yndnr/authfront/internal/telemetry/metric"
)

func TestServeMetrics(t *testing.T) {
	store := storage.NewTokenStore(storage.NewMemoryKV(), "http://api.test")
	auth := service.NewAuthState(context.Background(), store, nil)
	auth.Login(context.Background(), domain.NewSessionToken(testToken, time.Now().Add(time.Hour)))

	env := &Env{Metrics: metric.NewRegistry(), Auth: auth, Logger: logger.Discard()}
	hooks := shutdown.NewHandler(time.Second)

	addr, err := serveMetrics(env, "127.0.0.1:0", hooks)
	if err != nil {
		t.Fatalf("serveMetrics() error = %v", err)
	}

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	for _, name := range []string{"authfront_session_expires_in_seconds", "go_goroutines"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output lacks %s", name)
		}
	}

	if err := hooks.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if _, err := client.Get("http://" + addr + "/metrics"); err == nil {
		t.Error("metrics server still answering after shutdown")
	}
}

func TestShell_StartPath(t *testing.T) {
	api := newFakeAPI(t)
	e := newCLIEnv(t, api.URL)

	out, errOut, err := e.run(t, "where\nexit\n", "shell", "/password-update")
	if err != nil {
		t.Fatalf("shell: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "== Missing token ==") {
		t.Errorf("output:\n%s", out)
	}
}
