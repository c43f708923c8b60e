package mdblog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// SiteConfig holds all configuration for an mdblog site.
type SiteConfig struct {
	Name        string `toml:"name"`        // Site name (default "Blog")
	URL         string `toml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `toml:"description"` // Site description for meta tags
	Author      string `toml:"author"`      // Author name for JSON-LD

	Addr       string `toml:"addr"`        // Listen address (default ":3000")
	ContentDir string `toml:"content_dir"` // Markdown tree (default "content")
	CodeStyle  string `toml:"code_style"`  // chroma style (default "github")

	PopularTags []string `toml:"popular_tags"` // default DefaultPopularTags
	CORSOrigins []string `toml:"cors_origins"` // default "*"

	SearchRate  float64 `toml:"search_rate"`  // searches per second per IP (default 2)
	SearchBurst int     `toml:"search_burst"` // default 10

	Watch    bool     `toml:"watch"`
	Debounce Duration `toml:"debounce"` // default 250ms
}

// Duration is a time.Duration written as a string such as "250ms" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.CodeStyle == "" {
		c.CodeStyle = "github"
	}
	if c.PopularTags == nil {
		c.PopularTags = DefaultPopularTags
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if c.SearchRate <= 0 {
		c.SearchRate = 2
	}
	if c.SearchBurst <= 0 {
		c.SearchBurst = 10
	}
	if c.Debounce.Duration <= 0 {
		c.Debounce.Duration = DefaultDebounce
	}
}

// LoadConfig reads a TOML config file, applies MDBLOG_* environment
// overrides and fills in defaults. A missing file is not an error.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return SiteConfig{}, fmt.Errorf("mdblog: parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return SiteConfig{}, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv() error {
	c.Name = EnvOr("MDBLOG_SITE_NAME", c.Name)
	c.URL = EnvOr("MDBLOG_SITE_URL", c.URL)
	c.Author = EnvOr("MDBLOG_AUTHOR", c.Author)
	c.Addr = EnvOr("MDBLOG_ADDR", c.Addr)
	c.ContentDir = EnvOr("MDBLOG_CONTENT_DIR", c.ContentDir)
	c.CodeStyle = EnvOr("MDBLOG_CODE_STYLE", c.CodeStyle)
	if v := os.Getenv("MDBLOG_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitComma(v)
	}
	if v := os.Getenv("MDBLOG_WATCH"); v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("mdblog: MDBLOG_WATCH: %w", err)
		}
		c.Watch = watch
	}
	return nil
}

func splitComma(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLibrary makes the App serve an existing Library instead of building
// one from Config.ContentDir.
func WithLibrary(lib *Library) Option {
	return func(a *App) {
		a.Library = lib
	}
}
