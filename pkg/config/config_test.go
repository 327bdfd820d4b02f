package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.validate("default"); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.Arena.TemplateLimit != 0 || cfg.Arena.RealmLimit != 0 {
		t.Errorf("default arenas should be unbounded")
	}
	if cfg.Locale() != language.Und {
		t.Errorf("default locale = %s", cfg.Locale())
	}
	if cfg.LogLevel() != zapcore.InfoLevel {
		t.Errorf("default level = %s", cfg.LogLevel())
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
arena:
  template_limit: 8 MiB
  realm_limit: 65536
completions:
  order: collate
  locale: de
names:
  cache_size: 32
log:
  level: debug
  development: true
`)
	cfg, err := ParseConfig(data, "njscore.yaml")
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.Arena.TemplateLimit != 8<<20 {
		t.Errorf("template_limit = %d", cfg.Arena.TemplateLimit)
	}
	if cfg.Arena.RealmLimit != 65536 {
		t.Errorf("realm_limit = %d", cfg.Arena.RealmLimit)
	}
	if cfg.Completions.Order != "collate" || cfg.Locale() != language.German {
		t.Errorf("completions = %+v", cfg.Completions)
	}
	if cfg.Names.CacheSize != 32 {
		t.Errorf("cache_size = %d", cfg.Names.CacheSize)
	}
	if cfg.LogLevel() != zapcore.DebugLevel || !cfg.Log.Development {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("log:\n  level: warn\n"), "njscore.yaml")
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.Names.CacheSize != Default().Names.CacheSize {
		t.Errorf("cache_size = %d, want default", cfg.Names.CacheSize)
	}
	if cfg.Completions.Order != "none" {
		t.Errorf("order = %q, want none", cfg.Completions.Order)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad size", "arena:\n  realm_limit: lots\n", "invalid byte size"},
		{"tiny realm", "arena:\n  realm_limit: 100\n", "arena.realm_limit"},
		{"bad order", "completions:\n  order: random\n", "unknown order"},
		{"bad locale", "completions:\n  locale: \"not a locale!\"\n", "completions.locale"},
		{"bad cache", "names:\n  cache_size: 0\n", "names.cache_size"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad yaml", "arena: [", "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data), "njscore.yaml")
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestByteSizeString(t *testing.T) {
	if s := ByteSize(0).String(); s != "unbounded" {
		t.Errorf("ByteSize(0) = %q", s)
	}
	if s := ByteSize(8 << 20).String(); s != "8.0 MiB" {
		t.Errorf("ByteSize(8MiB) = %q", s)
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, []byte("names:\n  cache_size: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig failed: %v", err)
	}
	if found != path {
		t.Errorf("FindConfig = %q, want %q", found, path)
	}

	cfg, err := LoadConfig(found)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Names.CacheSize != 8 {
		t.Errorf("cache_size = %d", cfg.Names.CacheSize)
	}

	if _, err := LoadConfig(filepath.Join(root, "missing.yaml")); err == nil {
		t.Errorf("expected error for a missing file")
	}
}
