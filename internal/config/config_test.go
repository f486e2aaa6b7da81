package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"github.com/X12-Cloud/Nytrogen/internal/config"
)

func TestDefaultUsesBareToolchainNames(t *testing.T) {
	cfg := config.Default()
	be.Equal(t, cfg.Nasm, "nasm")
	be.Equal(t, cfg.Ld, "ld")
	be.Equal(t, cfg.OutputDir, "")
}

func TestLoadWithNoTomlFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Nasm, "nasm")
	be.Equal(t, cfg.Ld, "ld")
}

func TestLoadReadsOutputDirFromToml(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "nytrogen.toml")
	body := "output_dir = \"build\"\ninclude_paths = [\"lib\", \"vendor\"]\nnasm = \"/usr/bin/nasm\"\nld = \"/usr/bin/ld\"\n"
	be.Err(t, os.WriteFile(tomlPath, []byte(body), 0o644), nil)

	cfg, err := config.Load(dir)
	be.Err(t, err, nil)
	be.Equal(t, cfg.OutputDir, "build")
	be.Equal(t, cfg.IncludePaths, []string{"lib", "vendor"})
	be.Equal(t, cfg.Nasm, "/usr/bin/nasm")
	be.Equal(t, cfg.Ld, "/usr/bin/ld")
}

func TestLoadWithMalformedTomlReturnsError(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "nytrogen.toml")
	be.Err(t, os.WriteFile(tomlPath, []byte("output_dir = ["), 0o644), nil)

	_, err := config.Load(dir)
	be.True(t, err != nil)
}
