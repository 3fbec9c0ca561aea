package confloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix prefixes the environment variables read by Env.
const DefaultEnvPrefix = "AUTHFRONT_"

// Source is one configuration layer.
type Source interface {
	// String names the source in errors.
	String() string
	apply(k *koanf.Koanf) error
}

// Load merges sources in order onto target using koanf struct tags.
// Keys no source sets keep target's current values.
func Load(target any, sources ...Source) error {
	k := koanf.New(".")
	for _, s := range sources {
		if err := s.apply(k); err != nil {
			return fmt.Errorf("load %s: %w", s, err)
		}
	}
	if err := k.Unmarshal("", target); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

type fileSource struct {
	path     string
	optional bool
}

// File is a YAML file that must exist. An empty path is skipped.
func File(path string) Source { return fileSource{path: path} }

// OptionalFile is a YAML file that is skipped when it does not exist.
func OptionalFile(path string) Source { return fileSource{path: path, optional: true} }

func (s fileSource) String() string { return "file " + s.path }

func (s fileSource) apply(k *koanf.Koanf) error {
	if s.path == "" {
		return nil
	}
	if _, err := os.Stat(s.path); err != nil {
		if s.optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return k.Load(file.Provider(s.path), yaml.Parser())
}

type envSource struct {
	prefix string
	flat   []string
}

// Env is the set of environment variables starting with prefix
// (DefaultEnvPrefix when empty). The first underscore after the prefix
// separates the section; top-level keys that contain an underscore
// themselves must be listed in flat.
func Env(prefix string, flat ...string) Source {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return envSource{prefix: prefix, flat: flat}
}

func (s envSource) String() string { return "env " + s.prefix + "*" }

func (s envSource) apply(k *koanf.Koanf) error {
	return k.Load(env.Provider(s.prefix, ".", s.key), nil)
}

// key maps AUTHFRONT_STORAGE_DIR to storage.dir.
func (s envSource) key(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, s.prefix))
	if slices.Contains(s.flat, name) {
		return name
	}
	return strings.Replace(name, "_", ".", 1)
}

type mapSource map[string]any

// Map is a set of values keyed by dotted paths such as "log.level".
func Map(values map[string]any) Source { return mapSource(values) }

func (s mapSource) String() string { return "overrides" }

func (s mapSource) apply(k *koanf.Koanf) error {
	if len(s) == 0 {
		return nil
	}
	return k.Load(mapProvider(s), nil)
}
