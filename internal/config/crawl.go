package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// CrawlConfig is the validated, immutable configuration of one crawl.
// It can only be built by NewCrawlConfig; the zero value is not usable.
type CrawlConfig struct {
	seed      string
	recursive bool
	maxLevel  int
	domain    string
	outputDir string
	local     bool
}

// NewCrawlConfig validates the crawl parameters and builds a CrawlConfig.
//
// The seed must be an http or https URL with a host, a file URL, or a path
// to an existing file (normalized to a file URL). A negative maxLevel fails
// with ErrInvalidLevel; 0 means unlimited depth. The output directory is
// created if it is missing; a leading "~" is expanded to the home directory.
//
// A non-recursive crawl or a local seed always has a maximum level of 1,
// so no anchor is ever followed.
func NewCrawlConfig(seed string, recursive bool, maxLevel int, outputDir string) (*CrawlConfig, error) {
	if maxLevel < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, maxLevel)
	}

	normalized, domain, local, err := normalizeSeed(seed)
	if err != nil {
		return nil, err
	}

	dir, err := prepareOutputDir(outputDir)
	if err != nil {
		return nil, err
	}

	if !recursive || local {
		maxLevel = 1
	}

	return &CrawlConfig{
		seed:      normalized,
		recursive: recursive && !local,
		maxLevel:  maxLevel,
		domain:    domain,
		outputDir: dir,
		local:     local,
	}, nil
}

// Seed returns the normalized seed URL.
func (c *CrawlConfig) Seed() string { return c.seed }

// Recursive reports whether same-domain anchors are followed.
func (c *CrawlConfig) Recursive() bool { return c.recursive }

// MaxLevel returns the maximum crawl depth; 0 means unlimited.
func (c *CrawlConfig) MaxLevel() int { return c.maxLevel }

// Unlimited reports whether the crawl has no depth bound.
func (c *CrawlConfig) Unlimited() bool { return c.maxLevel == 0 }

// Domain returns the host (host:port) anchors must match to be followed.
// It is empty for a local seed.
func (c *CrawlConfig) Domain() string { return c.domain }

// OutputDir returns the absolute output directory.
func (c *CrawlConfig) OutputDir() string { return c.outputDir }

// IsLocal reports whether the seed is a local file.
func (c *CrawlConfig) IsLocal() bool { return c.local }

func normalizeSeed(seed string) (normalized, domain string, local bool, err error) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return "", "", false, fmt.Errorf("%w: empty seed", ErrInvalidURL)
	}

	u, parseErr := url.Parse(seed)
	if parseErr == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			if u.Host == "" {
				return "", "", false, fmt.Errorf("%w: %q has no host", ErrInvalidURL, seed)
			}
			return u.String(), u.Host, false, nil
		case "file":
			if u.Host == "" && u.Path == "" {
				return "", "", false, fmt.Errorf("%w: %q has no path", ErrInvalidURL, seed)
			}
			return u.String(), "", true, nil
		}
	}

	// Anything else is only accepted as an existing local path.
	info, statErr := os.Stat(seed)
	if statErr != nil || info.IsDir() {
		return "", "", false, fmt.Errorf("%w: %q", ErrInvalidURL, seed)
	}
	abs, absErr := filepath.Abs(seed)
	if absErr != nil {
		return "", "", false, fmt.Errorf("%w: %q: %w", ErrInvalidURL, seed, absErr)
	}
	fileURL := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return fileURL.String(), "", true, nil
}

func prepareOutputDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	expanded, err := ExpandHome(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidPath, dir, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidPath, dir, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidPath, dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidPath, dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %q is not a directory", ErrInvalidPath, dir)
	}
	if err := checkWritable(abs); err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidPath, dir, err)
	}
	return abs, nil
}

// checkWritable creates and removes a scratch file in dir.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".spider-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	return os.Remove(name)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
