package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/authfront/internal/cli/output"
	"github.com/yndnr/authfront/internal/infra/confloader"
	"github.com/yndnr/authfront/internal/storage"
	"github.com/yndnr/authfront/internal/telemetry/logger"
)

// DefaultDir returns ~/.authfront.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".authfront")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "cli.yaml")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Load reads the configuration at path (the default path when empty),
// the AUTHFRONT_ environment and finally overrides, whose keys are
// dotted paths such as "log.level". A missing file yields defaults.
func Load(path string, overrides map[string]any) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	err := confloader.Load(cfg,
		confloader.OptionalFile(ExpandHome(path)),
		confloader.Env(confloader.DefaultEnvPrefix, "rate_limit"),
		confloader.Map(overrides),
	)
	if err != nil {
		return nil, err
	}

	cfg.Storage.Dir = ExpandHome(cfg.Storage.Dir)
	cfg.TLS.CAFile = ExpandHome(cfg.TLS.CAFile)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *CLIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server, validation.Required, is.URL),
		validation.Field(&c.Output, validation.By(func(v any) error {
			_, err := output.ParseFormat(v.(string))
			return err
		})),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.RateLimit, validation.Min(0.0)),
		validation.Field(&c.Log),
		validation.Field(&c.Storage),
	)
}

// Validate checks the log section.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.By(func(v any) error {
			_, err := logger.ParseLevel(v.(string))
			return err
		})),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}

// Validate checks the storage section.
func (s StorageConfig) Validate() error {
	var dirRules []validation.Rule
	if s.Backend != storage.BackendMemory {
		dirRules = append(dirRules, validation.Required)
	}
	return validation.ValidateStruct(&s,
		validation.Field(&s.Backend, validation.In(storage.BackendFile, storage.BackendBadger, storage.BackendMemory)),
		validation.Field(&s.Dir, dirRules...),
	)
}

// Marshal renders cfg as YAML.
func Marshal(cfg *CLIConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path with 0600 permissions, creating the directory.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	path = ExpandHome(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
