// Package config loads engine settings from njscore.yaml.
//
// Every field is optional; Default returns the values used when no file
// is present. Sizes accept humanized byte counts such as "64 MiB".
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FileName is the config file FindConfig looks for.
const FileName = "njscore.yaml"

// Config represents the top-level njscore.yaml configuration.
type Config struct {
	// Arena bounds the memory pools of the template and of each VM.
	Arena Arena `yaml:"arena"`

	// Completions controls how completion candidates are returned.
	Completions Completions `yaml:"completions"`

	// Names configures the native function name cache.
	Names Names `yaml:"names"`

	Log Log `yaml:"log"`
}

// Arena holds pool ceilings. Zero means unbounded.
type Arena struct {
	TemplateLimit ByteSize `yaml:"template_limit"`
	RealmLimit    ByteSize `yaml:"realm_limit"`
}

// Completions holds the completion ordering.
type Completions struct {
	// Order is "none" (table order) or "collate".
	Order string `yaml:"order"`
	// Locale is a BCP 47 tag used when Order is "collate".
	Locale string `yaml:"locale"`
}

// Names holds the resolver cache size.
type Names struct {
	CacheSize int `yaml:"cache_size"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ByteSize is a byte count written either as a number or as a humanized
// string ("512 KiB", "8MB").
type ByteSize uint64

func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a byte size", node.Line)
	}
	n, err := humanize.ParseBytes(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid byte size %q: %w", node.Line, node.Value, err)
	}
	*b = ByteSize(n)
	return nil
}

func (b ByteSize) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

func (b ByteSize) String() string {
	if b == 0 {
		return "unbounded"
	}
	return humanize.IBytes(uint64(b))
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Completions: Completions{Order: "none", Locale: "und"},
		Names:       Names{CacheSize: 256},
		Log:         Log{Level: "info"},
	}
}

// LoadConfig reads and validates a config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses njscore.yaml content from bytes. Fields absent from
// data keep their defaults. The path argument is used only for error
// messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig searches for njscore.yaml starting from dir and walking up
// to parent directories. It returns "" and a nil error when no file
// exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	switch strings.ToLower(c.Completions.Order) {
	case "", "none", "collate":
	default:
		return fmt.Errorf("%s: completions.order: unknown order %q (want none or collate)", path, c.Completions.Order)
	}
	if _, err := language.Parse(c.Completions.Locale); err != nil {
		return fmt.Errorf("%s: completions.locale: %w", path, err)
	}
	if c.Names.CacheSize <= 0 {
		return fmt.Errorf("%s: names.cache_size must be positive, got %d", path, c.Names.CacheSize)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%s: log.level: %w", path, err)
	}
	if c.Arena.RealmLimit != 0 && c.Arena.RealmLimit < minRealmLimit {
		return fmt.Errorf("%s: arena.realm_limit %s is below the %s a VM needs",
			path, c.Arena.RealmLimit, ByteSize(minRealmLimit))
	}
	return nil
}

// minRealmLimit is below what the cloned builtins alone take.
const minRealmLimit = 1 << 10

// Locale returns the parsed completion locale.
func (c *Config) Locale() language.Tag {
	tag, err := language.Parse(c.Completions.Locale)
	if err != nil {
		return language.Und
	}
	return tag
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
