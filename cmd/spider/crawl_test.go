package main

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/spider/internal/config"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

// writeConfig writes a .spider file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".spider")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// runRoot executes the root command with args and returns stdout and stderr.
func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// newSite serves a two-page site with an image and a PDF.
func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, `<html><img src="/logo.jpg"><a href="/docs">docs</a></html>`)
	})
	mux.HandleFunc("/docs", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `<html><a href="/files/cv.pdf">cv</a><img src="/missing.png"></html>`)
	})
	mux.HandleFunc("/logo.jpg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(pngBytes)
	})
	mux.HandleFunc("/files/cv.pdf", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4\n%%EOF\n"))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// TestNewCrawlCmd tests the crawl command flags.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "recursive", shorthand: "r", defValue: "false"},
		{name: "level", shorthand: "l", defValue: "5"},
		{name: "path", shorthand: "p", defValue: config.DefaultOutputDir},
		{name: "json", shorthand: "j", defValue: "false"},
		{name: "markdown", shorthand: "m", defValue: "false"},
		{name: "output", shorthand: "o", defValue: ""},
		{name: "quiet", shorthand: "q", defValue: "false"},
		{name: "config", shorthand: "c", defValue: ""},
		{name: "proxy", defValue: ""},
		{name: "tor", defValue: "false"},
		{name: "no-history", defValue: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestBuildConfig tests merging the .spider file with the flags.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, `
defaults:
  level: 2
  path: /tmp/spider-out
  recursive: true
  proxy: 127.0.0.1:9050
sites:
  example.com:
    cookie: "sid=1"
`)

	t.Run("file defaults apply", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--config", cfgPath, "--no-history"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		cfg, err := buildConfig(cmd, []string{"https://example.com/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxLevel != 2 || cfg.OutputDir != "/tmp/spider-out" || !cfg.Recursive {
			t.Errorf("expected file defaults, got level=%d path=%q recursive=%v",
				cfg.MaxLevel, cfg.OutputDir, cfg.Recursive)
		}
		if cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("expected proxy from file, got %q", cfg.ProxyAddress)
		}
		if cfg.SaveHistory {
			t.Error("expected --no-history to disable history")
		}
		if got := cfg.SiteConfigs.GetSiteConfig("example.com").Cookie; got != "sid=1" {
			t.Errorf("expected site cookie, got %q", got)
		}
	})

	t.Run("flags win over the file", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		args := []string{"--config", cfgPath, "-l", "7", "-p", "/tmp/other", "--proxy", "127.0.0.1:1080"}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		cfg, err := buildConfig(cmd, []string{"https://example.com/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxLevel != 7 || cfg.OutputDir != "/tmp/other" || cfg.ProxyAddress != "127.0.0.1:1080" {
			t.Errorf("expected flag values, got level=%d path=%q proxy=%q",
				cfg.MaxLevel, cfg.OutputDir, cfg.ProxyAddress)
		}
		if !cfg.Recursive {
			t.Error("expected recursive to stay on from the file")
		}
	})

	t.Run("built-in defaults without a file", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--config", writeConfig(t, "{}\n")}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		cfg, err := buildConfig(cmd, []string{"https://example.com/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.MaxLevel != config.DefaultLevel || cfg.OutputDir != config.DefaultOutputDir || cfg.Recursive {
			t.Errorf("expected built-in defaults, got %+v", cfg)
		}
		if !cfg.SaveHistory {
			t.Error("expected history to be on by default")
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		missing := filepath.Join(t.TempDir(), "nope.yaml")
		if err := cmd.ParseFlags([]string{"--config", missing}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		if _, err := buildConfig(cmd, []string{"https://example.com/"}); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestCrawlCmdValidation tests errors raised before any network activity.
func TestCrawlCmdValidation(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, "{}\n")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "negative level",
			args:    []string{"crawl", "--config", cfgPath, "--no-history", "--level=-1", "https://example.com/"},
			wantErr: config.ErrInvalidLevel,
		},
		{
			name:    "json and markdown",
			args:    []string{"crawl", "--config", cfgPath, "--no-history", "--json", "--markdown", "https://example.com/"},
			wantErr: config.ErrConflictingReportFormats,
		},
		{
			name:    "proxy and tor",
			args:    []string{"crawl", "--config", cfgPath, "--no-history", "--tor", "--proxy", "127.0.0.1:9050", "https://example.com/"},
			wantErr: config.ErrConflictingProxies,
		},
		{
			name:    "invalid seed",
			args:    []string{"crawl", "--config", cfgPath, "--no-history", "not a url"},
			wantErr: config.ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := runRoot(t, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("missing seed", func(t *testing.T) {
		t.Parallel()
		if _, _, err := runRoot(t, "crawl", "--no-history"); err == nil {
			t.Error("expected error without a seed")
		}
	})
}

// TestCrawlCmdEndToEnd crawls a test server, records the run and reads it
// back through the history command.
func TestCrawlCmdEndToEnd(t *testing.T) {
	t.Parallel()

	ts := newSite(t)
	outDir := t.TempDir()
	dataDir := t.TempDir()
	cfgPath := writeConfig(t, "{}\n")

	stdout, _, err := runRoot(t, "crawl", "--config", cfgPath, "-q",
		"-r", "-l", "3", "-p", outDir, "--data-dir", dataDir, ts.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"SPIDER RUN REPORT", "Status:      Complete", "logo.png", "cv.pdf"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in report, got:\n%s", want, stdout)
		}
	}
	for _, name := range []string{"logo.png", "cv.pdf"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected %s to be saved: %v", name, err)
		}
	}

	listing, _, err := runRoot(t, "history", "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(listing, ts.URL) || !strings.Contains(listing, "complete") {
		t.Errorf("expected run in history, got:\n%s", listing)
	}

	detail, _, err := runRoot(t, "history", "--data-dir", dataDir, "--run", "1", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(detail, `"filename": "cv.pdf"`) {
		t.Errorf("expected stored artifacts in JSON, got:\n%s", detail)
	}
}

// TestCrawlCmdReportFile tests writing a Markdown report to a file.
func TestCrawlCmdReportFile(t *testing.T) {
	t.Parallel()

	ts := newSite(t)
	reportPath := filepath.Join(t.TempDir(), "reports", "run.md")

	stdout, _, err := runRoot(t, "crawl", "--config", writeConfig(t, "{}\n"), "-q", "--no-history",
		"-p", t.TempDir(), "--markdown", "-o", reportPath, ts.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "" {
		t.Errorf("expected nothing on stdout, got %q", stdout)
	}

	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("expected report file: %v", err)
	}
	if !strings.Contains(string(content), "# Spider Run Report") {
		t.Errorf("expected Markdown report, got:\n%s", content)
	}
}

// TestCrawlCmdSiteCookie tests that the per-host cookie reaches the server.
func TestCrawlCmdSiteCookie(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `<img src="/private.png">`)
	})
	mux.HandleFunc("/private.png", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err != nil || c.Value != "abc" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_, _ = w.Write(pngBytes)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	cfgPath := writeConfig(t, fmt.Sprintf("sites:\n  %q:\n    cookie: \"session=abc\"\n", u.Host))
	outDir := t.TempDir()

	if _, _, err := runRoot(t, "crawl", "--config", cfgPath, "-q", "--no-history", "-p", outDir, ts.URL+"/"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "private.png")); err != nil {
		t.Errorf("expected cookie-protected image to be saved: %v", err)
	}
}

// TestCrawlCmdProxyUnavailable tests that an unreachable proxy fails the run.
func TestCrawlCmdProxyUnavailable(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	outDir := t.TempDir()
	_, _, err = runRoot(t, "crawl", "--config", writeConfig(t, "{}\n"), "-q", "--no-history",
		"-p", outDir, "--proxy", addr, "https://example.com/")
	if err == nil || !strings.Contains(err.Error(), "proxy check failed") {
		t.Errorf("expected proxy check failure, got %v", err)
	}
}
