package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "nope.toml"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %s, want :8080", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("default cache backend = %s, want file", cfg.Cache.Backend)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9999"

[backend]
lineage_url = "http://analysis.internal:8000"

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[layout]
node_width = 220
sweeps = 8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %s, want :9999", cfg.Server.Addr)
	}
	if cfg.Backend.LineageURL != "http://analysis.internal:8000" {
		t.Errorf("lineage_url = %s", cfg.Backend.LineageURL)
	}
	if cfg.Backend.ClassifyURL != "http://localhost:8000" {
		t.Errorf("unset classify_url = %s, want default", cfg.Backend.ClassifyURL)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v, want redis at localhost:6379", cfg.Cache)
	}
	if cfg.Layout.NodeWidth != 220 || cfg.Layout.Sweeps != 8 {
		t.Errorf("layout = %+v, want node_width 220 sweeps 8", cfg.Layout)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() with invalid TOML should fail")
	}
}

func TestLayoutOptions(t *testing.T) {
	opts := LayoutConfig{NodeWidth: 220, Sweeps: 8}.LayoutOptions()
	if opts.NodeWidth != 220 {
		t.Errorf("NodeWidth = %g, want 220", opts.NodeWidth)
	}
	if opts.Sweeps != 8 {
		t.Errorf("Sweeps = %d, want 8", opts.Sweeps)
	}
	// Unset fields keep package defaults.
	if opts.NodeHeight == 0 || opts.RankGap == 0 {
		t.Errorf("unset fields not defaulted: %+v", opts)
	}
}
