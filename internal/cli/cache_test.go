package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/rankplot/pkg/cache"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return filepath.Join(xdg, "rankplot")
}

func TestCachePathCommand(t *testing.T) {
	want := isolate(t)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCachePathFromConfig(t *testing.T) {
	isolate(t)
	custom := filepath.Join(t.TempDir(), "charts")
	t.Setenv("RANKPLOT_CACHE_DIR", custom)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if got := strings.TrimSpace(out); got != custom {
		t.Errorf("cache path = %q, want %q", got, custom)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := isolate(t)

	// Clearing a missing directory is fine.
	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear on empty cache: %v", err)
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"scene:a", "artifact:svg:b"} {
		if err := fc.Set(ctx, k, []byte("x"), 0); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after clear", len(entries))
	}
}

func TestNewCache(t *testing.T) {
	isolate(t)
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	ch, err := c.newCache(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ch.(*cache.NullCache); !ok {
		t.Errorf("newCache(noCache) = %T, want *cache.NullCache", ch)
	}

	ch, err = c.newCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ch.(*cache.FileCache); !ok {
		t.Errorf("newCache() = %T, want *cache.FileCache", ch)
	}
	if name := cacheName(ch); !strings.HasSuffix(name, "rankplot") {
		t.Errorf("cacheName() = %q", name)
	}
}

func TestNewCacheBadRedisURL(t *testing.T) {
	isolate(t)
	c := New(io.Discard, LogInfo)
	c.config = &Config{Server: ServerConfig{RedisURL: "http://nope"}}
	if _, err := c.newCache(context.Background(), false); err == nil {
		t.Error("newCache with a bad redis URL should fail")
	}
}
