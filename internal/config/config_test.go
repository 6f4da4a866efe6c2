package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies the defaults of NewConfig.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default level is 5", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxLevel != 5 {
			t.Errorf("expected MaxLevel to be 5, got %d", cfg.MaxLevel)
		}
	})

	t.Run("default output dir is ./data/", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputDir != "./data/" {
			t.Errorf("expected OutputDir to be './data/', got '%s'", cfg.OutputDir)
		}
	})

	t.Run("recursion is off by default", func(t *testing.T) {
		t.Parallel()
		if cfg.Recursive {
			t.Error("expected Recursive to be false")
		}
	})

	t.Run("history is on by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveHistory {
			t.Error("expected SaveHistory to be true")
		}
		if !strings.HasSuffix(cfg.DBDir, AppName) {
			t.Errorf("expected DBDir to end in %q, got %q", AppName, cfg.DBDir)
		}
	})

	t.Run("default TorStartupTimeout is 3 minutes", func(t *testing.T) {
		t.Parallel()
		if cfg.TorStartupTimeout != 3*time.Minute {
			t.Errorf("expected TorStartupTimeout to be 3m, got %v", cfg.TorStartupTimeout)
		}
	})

	t.Run("BodyLimit falls back to the default", func(t *testing.T) {
		t.Parallel()
		c := &Config{}
		if c.BodyLimit() != DefaultMaxBodySize {
			t.Errorf("expected %d, got %d", DefaultMaxBodySize, c.BodyLimit())
		}
	})
}

// TestConfigValidate tests each validation rule in isolation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		c := NewConfig()
		c.Seed = "http://example.com/"
		return c
	}

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{name: "valid config", modify: func(_ *Config) {}},
		{name: "level zero is unlimited", modify: func(c *Config) { c.MaxLevel = 0 }},
		{name: "empty seed", modify: func(c *Config) { c.Seed = "" }, wantErr: ErrNoSeed},
		{name: "negative level", modify: func(c *Config) { c.MaxLevel = -1 }, wantErr: ErrInvalidLevel},
		{
			name:    "json and markdown",
			modify:  func(c *Config) { c.JSONReport, c.MarkdownReport = true, true },
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "proxy and tor",
			modify:  func(c *Config) { c.UseTor, c.ProxyAddress = true, "127.0.0.1:9050" },
			wantErr: ErrConflictingProxies,
		},
		{
			name:    "tor with zero timeout",
			modify:  func(c *Config) { c.UseTor, c.TorStartupTimeout = true, 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative body size",
			modify:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := validConfig()
			tt.modify(c)
			err := c.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestNewCrawlConfig tests construction of the immutable crawl configuration.
func TestNewCrawlConfig(t *testing.T) {
	t.Parallel()

	t.Run("recursive http seed keeps its level and domain", func(t *testing.T) {
		t.Parallel()
		out := filepath.Join(t.TempDir(), "out")

		cfg, err := NewCrawlConfig("http://ex.com:8080/index.html", true, 3, out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Seed() != "http://ex.com:8080/index.html" {
			t.Errorf("unexpected seed %q", cfg.Seed())
		}
		if cfg.Domain() != "ex.com:8080" {
			t.Errorf("expected domain 'ex.com:8080', got %q", cfg.Domain())
		}
		if cfg.MaxLevel() != 3 {
			t.Errorf("expected MaxLevel 3, got %d", cfg.MaxLevel())
		}
		if !cfg.Recursive() || cfg.IsLocal() || cfg.Unlimited() {
			t.Errorf("unexpected flags: recursive=%v local=%v unlimited=%v",
				cfg.Recursive(), cfg.IsLocal(), cfg.Unlimited())
		}
		if info, err := os.Stat(out); err != nil || !info.IsDir() {
			t.Errorf("expected output dir to be created, stat err: %v", err)
		}
		if !filepath.IsAbs(cfg.OutputDir()) {
			t.Errorf("expected absolute output dir, got %q", cfg.OutputDir())
		}
		entries, err := os.ReadDir(out)
		if err != nil {
			t.Fatalf("failed to read output dir: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty output dir, got %d entries", len(entries))
		}
	})

	t.Run("level zero is unlimited", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewCrawlConfig("https://ex.com/", true, 0, t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.Unlimited() {
			t.Errorf("expected unlimited crawl, got MaxLevel %d", cfg.MaxLevel())
		}
	})

	t.Run("non-recursive crawl forces level 1", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewCrawlConfig("https://ex.com/", false, 0, t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.MaxLevel() != 1 {
			t.Errorf("expected MaxLevel 1, got %d", cfg.MaxLevel())
		}
	})

	t.Run("existing local path becomes a file URL", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		page := filepath.Join(dir, "page.html")
		if err := os.WriteFile(page, []byte("<html></html>"), 0o600); err != nil {
			t.Fatalf("failed to write page: %v", err)
		}

		cfg, err := NewCrawlConfig(page, true, 5, dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.IsLocal() {
			t.Error("expected a local seed")
		}
		if !strings.HasPrefix(cfg.Seed(), "file://") {
			t.Errorf("expected file URL, got %q", cfg.Seed())
		}
		if cfg.MaxLevel() != 1 || cfg.Recursive() {
			t.Errorf("local seed must not recurse, got level %d recursive %v", cfg.MaxLevel(), cfg.Recursive())
		}
		if cfg.Domain() != "" {
			t.Errorf("expected empty domain, got %q", cfg.Domain())
		}
	})

	t.Run("file URL seed is local", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewCrawlConfig("file:///tmp/page.html", true, 5, t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.IsLocal() || cfg.MaxLevel() != 1 {
			t.Errorf("expected local seed with level 1, got local=%v level=%d", cfg.IsLocal(), cfg.MaxLevel())
		}
	})

	t.Run("output path inside home is expanded", func(t *testing.T) {
		t.Parallel()
		got, err := ExpandHome("~/spider-data")
		if err != nil {
			t.Skipf("no home directory: %v", err)
		}
		if strings.HasPrefix(got, "~") {
			t.Errorf("expected expanded path, got %q", got)
		}
		if same, _ := ExpandHome("./data"); same != "./data" {
			t.Errorf("expected relative path unchanged, got %q", same)
		}
	})

	errTests := []struct {
		name    string
		seed    string
		level   int
		out     func(t *testing.T) string
		wantErr error
	}{
		{name: "negative level", seed: "http://ex.com/", level: -1, wantErr: ErrInvalidLevel},
		{name: "empty seed", seed: "", level: 1, wantErr: ErrInvalidURL},
		{name: "unsupported scheme", seed: "ftp://ex.com/file", level: 1, wantErr: ErrInvalidURL},
		{name: "http without host", seed: "http:///path", level: 1, wantErr: ErrInvalidURL},
		{name: "missing local path", seed: "/definitely/not/here.html", level: 1, wantErr: ErrInvalidURL},
		{name: "plain word", seed: "example", level: 1, wantErr: ErrInvalidURL},
		{
			name:  "output path is a file",
			seed:  "http://ex.com/",
			level: 1,
			out: func(t *testing.T) string {
				f := filepath.Join(t.TempDir(), "file")
				if err := os.WriteFile(f, []byte("x"), 0o600); err != nil {
					t.Fatalf("failed to write file: %v", err)
				}
				return f
			},
			wantErr: ErrInvalidPath,
		},
		{
			name:  "output directory is not writable",
			seed:  "http://ex.com/",
			level: 1,
			out: func(t *testing.T) string {
				if runtime.GOOS == "linux" {
					// procfs refuses new files even for root.
					return "/proc/self"
				}
				if os.Geteuid() == 0 {
					t.Skip("root ignores directory permissions")
				}
				dir := filepath.Join(t.TempDir(), "ro")
				if err := os.Mkdir(dir, 0o500); err != nil {
					t.Fatalf("failed to create directory: %v", err)
				}
				return dir
			},
			wantErr: ErrInvalidPath,
		},
		{
			name:    "empty output path",
			seed:    "http://ex.com/",
			level:   1,
			out:     func(_ *testing.T) string { return "" },
			wantErr: ErrInvalidPath,
		},
	}

	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := t.TempDir()
			if tt.out != nil {
				out = tt.out(t)
			}
			cfg, err := NewCrawlConfig(tt.seed, true, tt.level, out)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if cfg != nil {
				t.Error("expected nil config on error")
			}
		})
	}
}

// TestGetSiteConfig tests merging site settings over the defaults.
func TestGetSiteConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: Defaults{
			Cookie:  "default=1",
			Headers: map[string]string{"X-Default": "yes", "Accept-Language": "en"},
		},
		Sites: map[string]SiteConfig{
			"ex.com": {
				Cookie:  "session=abc",
				Headers: map[string]string{"Accept-Language": "ja"},
			},
		},
	}

	t.Run("unknown host gets the defaults", func(t *testing.T) {
		t.Parallel()
		sc := cf.GetSiteConfig("other.com")
		if sc.Cookie != "default=1" {
			t.Errorf("expected default cookie, got %q", sc.Cookie)
		}
		if sc.Headers["X-Default"] != "yes" {
			t.Errorf("expected default header, got %v", sc.Headers)
		}
	})

	t.Run("site values override defaults", func(t *testing.T) {
		t.Parallel()
		sc := cf.GetSiteConfig("ex.com")
		if sc.Cookie != "session=abc" {
			t.Errorf("expected site cookie, got %q", sc.Cookie)
		}
		if sc.Headers["Accept-Language"] != "ja" || sc.Headers["X-Default"] != "yes" {
			t.Errorf("unexpected merged headers %v", sc.Headers)
		}
	})

	t.Run("merging does not modify the defaults", func(t *testing.T) {
		t.Parallel()
		_ = cf.GetSiteConfig("ex.com")
		if cf.Defaults.Headers["Accept-Language"] != "en" {
			t.Errorf("defaults were modified: %v", cf.Defaults.Headers)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		p := filepath.Join(t.TempDir(), ".spider")
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		return p
	}

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadConfigFile("/nonexistent/path/.spider")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()
		p := write(t, `defaults:
  level: 0
  path: ~/pictures
  recursive: true
sites:
  ex.com:
    cookie: "session=xyz"
    headers:
      Authorization: "Bearer token"
`)
		cfg, err := LoadConfigFile(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Defaults.Level == nil || *cfg.Defaults.Level != 0 {
			t.Errorf("expected explicit level 0, got %v", cfg.Defaults.Level)
		}
		if cfg.Defaults.Recursive == nil || !*cfg.Defaults.Recursive {
			t.Errorf("expected recursive true, got %v", cfg.Defaults.Recursive)
		}
		if cfg.Defaults.Path != "~/pictures" {
			t.Errorf("expected path '~/pictures', got %q", cfg.Defaults.Path)
		}
		site, ok := cfg.Sites["ex.com"]
		if !ok {
			t.Fatal("expected ex.com in sites")
		}
		if site.Headers["Authorization"] != "Bearer token" {
			t.Errorf("expected Authorization header, got %v", site.Headers)
		}
	})

	t.Run("absent keys stay unset", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadConfigFile(write(t, "defaults:\n  path: out\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Defaults.Level != nil || cfg.Defaults.Recursive != nil {
			t.Errorf("expected nil level and recursive, got %v %v", cfg.Defaults.Level, cfg.Defaults.Recursive)
		}
		if cfg.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})

	t.Run("negative level is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(write(t, "defaults:\n  level: -2\n"))
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("expected ErrInvalidLevel, got %v", err)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadConfigFile(write(t, `invalid: yaml: content: [}`)); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(p, []byte("defaults: {}"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if got := FindConfigFile(p); got != p {
			t.Errorf("expected %q, got %q", p, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()
		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}
