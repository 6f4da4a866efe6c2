// Package config provides the configuration of a spider run.
// It holds the immutable CrawlConfig used by the crawler and downloader,
// the CLI level Config, and the optional .spider YAML file.
package config
