package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".config", appName)) {
		t.Errorf("configDir() = %q, should end with .config/%s", dir, appName)
	}

	custom := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", custom)
	path, err := configFile()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(custom, appName, configName); path != want {
		t.Errorf("configFile() = %q, want %q", path, want)
	}
}

func TestDefaultRenderOutput(t *testing.T) {
	tests := []struct {
		input, format, want string
	}{
		{"laced.gfa", "svg", "laced.svg"},
		{filepath.Join("out", "chr1.gfa.gz"), "dot", filepath.Join("out", "chr1.dot")},
		{"graph", "svg", "graph.svg"},
	}
	for _, tt := range tests {
		if got := defaultRenderOutput(tt.input, tt.format); got != tt.want {
			t.Errorf("defaultRenderOutput(%q, %q) = %q, want %q", tt.input, tt.format, got, tt.want)
		}
	}
}
