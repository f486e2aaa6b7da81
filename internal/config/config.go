// Package config loads the optional nytrogen.toml project file: default
// output directory, preprocessor include search path, and driver
// toolchain binary paths. CLI flags always take precedence over
// whatever this package loads; Load only supplies defaults for flags
// left unset.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config holds every setting nytrogen.toml may supply.
type Config struct {
	OutputDir    string   `toml:"output_dir"`
	IncludePaths []string `toml:"include_paths"`
	Nasm         string   `toml:"nasm"`
	Ld           string   `toml:"ld"`
}

// Default returns the configuration used when no nytrogen.toml is found:
// the toolchain binaries are looked up on PATH by bare name, everything
// else is left for the caller to fill in from CLI flags.
func Default() Config {
	return Config{Nasm: "nasm", Ld: "ld"}
}

// Load looks for nytrogen.toml first in dir (typically the input file's
// directory) and then in the current working directory, returning
// Default() unmodified if neither exists.
func Load(dir string) (Config, error) {
	cfg := Default()

	candidates := []string{filepath.Join(dir, "nytrogen.toml")}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "nytrogen.toml"))
	}

	var path string
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			path = c
			break
		}
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(err, "config")
	}
	return cfg, nil
}
