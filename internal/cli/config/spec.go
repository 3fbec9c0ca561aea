package config

import (
	"time"

	"github.com/yndnr/authfront/internal/storage"
)

// CLIConfig is the configuration of authfront-cli.
type CLIConfig struct {
	// Server is the API origin, without the /api/v1 prefix.
	Server string `koanf:"server" yaml:"server"`
	// Output is table, json or yaml.
	Output  string        `koanf:"output" yaml:"output"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
	// RateLimit caps API requests per second; 0 disables the cap.
	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit"`

	Log     LogConfig     `koanf:"log" yaml:"log"`
	Storage StorageConfig `koanf:"storage" yaml:"storage"`
	Metrics MetricsConfig `koanf:"metrics" yaml:"metrics"`
	TLS     TLSConfig     `koanf:"tls" yaml:"tls"`
}

// LogConfig configures diagnostics written to stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// StorageConfig selects where the session token is persisted.
type StorageConfig struct {
	Backend string `koanf:"backend" yaml:"backend"`
	Dir     string `koanf:"dir" yaml:"dir"`
	// Encrypt seals the session file with a generated key.
	Encrypt bool `koanf:"encrypt" yaml:"encrypt"`
	// Watch re-hydrates the shell's session when another process
	// changes it.
	Watch bool `koanf:"watch" yaml:"watch"`
}

// MetricsConfig enables the /metrics endpoint while the shell runs.
type MetricsConfig struct {
	Address string `koanf:"address" yaml:"address"`
}

// TLSConfig adds a private CA for HTTPS servers.
type TLSConfig struct {
	CAFile string `koanf:"ca_file" yaml:"ca_file"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  "http://localhost:4000",
		Output:  "table",
		Timeout: 30 * time.Second,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Storage: StorageConfig{
			Backend: storage.BackendFile,
			Dir:     DefaultDir(),
			Watch:   true,
		},
	}
}

// StorageConfig converts the storage section for storage.Open.
func (c *CLIConfig) StorageConfig() storage.Config {
	sc := storage.DefaultConfig(ExpandHome(c.Storage.Dir))
	if c.Storage.Backend != "" {
		sc.Backend = c.Storage.Backend
	}
	sc.Encrypt = c.Storage.Encrypt
	return sc
}
