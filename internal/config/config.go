package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "spider"

	// DefaultLevel is the default maximum crawl depth.
	DefaultLevel = 5

	// DefaultOutputDir is the default directory downloaded files are saved to.
	DefaultOutputDir = "./data/"

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultMaxBodySize limits the size of a single response body.
	// Documents are larger than pages, so the limit is generous.
	DefaultMaxBodySize = 50 * 1024 * 1024 // 50MB
)

// Config holds the options of a spider run as given on the command line.
// It is turned into an immutable CrawlConfig by CrawlConfig once validated.
type Config struct {
	// Seed is the URL or local file the crawl starts from.
	Seed string

	// Recursive enables following same-domain anchors.
	Recursive bool

	// MaxLevel is the maximum crawl depth; 0 means unlimited.
	MaxLevel int

	// OutputDir is the directory downloaded files are written to.
	OutputDir string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and routes all traffic through it.
	UseTor bool

	// TorStartupTimeout bounds the embedded Tor bootstrap.
	TorStartupTimeout time.Duration

	// MaxBodySize is the largest response body read, in bytes.
	// 0 means DefaultMaxBodySize.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// Quiet hides the progress lines on stderr.
	Quiet bool

	// JSONReport selects the JSON run report.
	JSONReport bool

	// MarkdownReport selects the Markdown run report.
	MarkdownReport bool

	// ReportFile is where the run report is written; empty means stdout.
	ReportFile string

	// ConfigFilePath is an explicit path to a .spider file.
	ConfigFilePath string

	// SiteConfigs is the loaded .spider file, if any.
	SiteConfigs *File

	// SaveHistory records the run in the history database.
	SaveHistory bool

	// DBDir is the directory of the history database.
	DBDir string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		MaxLevel:          DefaultLevel,
		OutputDir:         DefaultOutputDir,
		TorStartupTimeout: DefaultTorStartupTimeout,
		MaxBodySize:       DefaultMaxBodySize,
		SaveHistory:       true,
		DBDir:             XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for spider.
// On Linux: ~/.local/share/spider
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the options that do not touch the filesystem.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.Seed == "" {
		return ErrNoSeed
	}

	if c.MaxLevel < 0 {
		return ErrInvalidLevel
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingProxies
	}

	if c.UseTor && c.TorStartupTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}

// CrawlConfig builds the immutable crawl configuration.
// The output directory is created here.
func (c *Config) CrawlConfig() (*CrawlConfig, error) {
	return NewCrawlConfig(c.Seed, c.Recursive, c.MaxLevel, c.OutputDir)
}

// BodyLimit returns the effective maximum body size.
func (c *Config) BodyLimit() int64 {
	if c.MaxBodySize == 0 {
		return DefaultMaxBodySize
	}
	return c.MaxBodySize
}
