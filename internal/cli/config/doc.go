// Package config defines the CLI configuration (~/.authfront/cli.yaml)
// and loads it through confloader with flag > env > file > default
// priority.
package config
