package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rankplot/pkg/pipeline"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Width != pipeline.DefaultWidth || cfg.Height != pipeline.DefaultHeight || cfg.DPI != pipeline.DefaultDPI {
		t.Errorf("figure defaults = %gx%g@%g", cfg.Width, cfg.Height, cfg.DPI)
	}
	if diff := cmp.Diff([]string{"svg"}, cfg.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	content := `
width = 8
formats = ["png", "svg"]

[plot]
grey_color = "silver"
palette = ["red", "green"]

[server]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	want := &Config{
		Width:   8,
		Height:  pipeline.DefaultHeight,
		DPI:     pipeline.DefaultDPI,
		Formats: []string{"png", "svg"},
		Plot:    PlotConfig{GreyColor: "silver", Palette: []string{"red", "green"}},
		Server:  ServerConfig{Addr: ":9090"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("loadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigSearchPath(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(t.TempDir())
	if err := os.MkdirAll(filepath.Join(xdg, "rankplot"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(xdg, "rankplot", "rankplot.toml"), []byte("dpi = 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.DPI != 200 {
		t.Errorf("DPI = %g, want 200 from the user config", cfg.DPI)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("RANKPLOT_HEIGHT", "3")
	t.Setenv("RANKPLOT_SERVER_REDIS_URL", "redis://cache:6379/1")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Height != 3 {
		t.Errorf("Height = %g, want 3 from env", cfg.Height)
	}
	if cfg.Server.RedisURL != "redis://cache:6379/1" {
		t.Errorf("RedisURL = %q", cfg.Server.RedisURL)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("loadConfig() with a missing explicit file should fail")
	}
}
