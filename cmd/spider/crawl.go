package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/spider/internal/config"
	"github.com/nao1215/spider/internal/database"
	"github.com/nao1215/spider/internal/fetcher"
	"github.com/nao1215/spider/internal/log"
	"github.com/nao1215/spider/internal/model"
	"github.com/nao1215/spider/internal/pipeline"
	"github.com/nao1215/spider/internal/progress"
	"github.com/nao1215/spider/internal/proxy"
	"github.com/nao1215/spider/internal/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [flags] URL",
		Short: "Crawl a site and download its images and documents",
		Long: `Crawl fetches the seed URL, collects every image (<img src>) and every
linked PDF or DOCX document, and saves the files whose content is a
supported format to the output directory.

The seed may be an http(s) URL, a file URL or a path to a local HTML file.
With -r, links to pages on the same host are followed breadth first up to
the maximum level (-l, 0 for unlimited). The seed page is level 1.

Files are named after the last path segment of their URL, with the
extension replaced by the detected format. A later file with the same name
overwrites an earlier one.

Examples:
  # Download the images of a single page
  spider crawl https://example.com/

  # Follow same-host links three levels deep into ./out
  spider crawl -r -l 3 -p ./out https://example.com/

  # Crawl through a local Tor daemon
  spider crawl -r --proxy 127.0.0.1:9050 http://example.onion/

  # Write a Markdown report
  spider crawl -r --markdown -o report.md https://example.com/

Configuration file (.spider) example:
  defaults:
    level: 3
    path: ./downloads
  sites:
    example.com:
      cookie: "session_id=abc123"`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().BoolP("recursive", "r", false,
		"Follow links to pages on the same host")
	cmd.Flags().IntP("level", "l", config.DefaultLevel,
		"Maximum crawl depth (0 = unlimited)")
	cmd.Flags().StringP("path", "p", config.DefaultOutputDir,
		"Directory to save downloaded files to")

	cmd.Flags().String("proxy", "",
		"Route requests through a SOCKS5 proxy (host:port)")
	cmd.Flags().Bool("tor", false,
		"Start an embedded Tor daemon and route requests through it")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Largest response body to read, in bytes")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .spider in current or home directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().BoolP("quiet", "q", false,
		"Do not draw progress on stderr")
	cmd.Flags().Bool("no-history", false,
		"Do not record the run in the history database")
	cmd.Flags().String("data-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildConfig creates a Config from the .spider file and the command flags.
// Flags given on the command line win over the file defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Seed = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.SiteConfigs, err = loadSiteConfigs(cfg.ConfigFilePath); err != nil {
		return nil, err
	}
	applyFileDefaults(cfg, cfg.SiteConfigs.Defaults)

	flags := cmd.Flags()
	if flags.Changed("recursive") {
		if cfg.Recursive, err = flags.GetBool("recursive"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("level") {
		if cfg.MaxLevel, err = flags.GetInt("level"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("path") {
		if cfg.OutputDir, err = flags.GetString("path"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}

	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, err
	}
	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory
	if cfg.DBDir, err = flags.GetString("data-dir"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSiteConfigs loads the .spider file. An explicitly given file must
// exist; otherwise a missing file yields an empty configuration.
func loadSiteConfigs(explicitPath string) (*config.File, error) {
	path := config.FindConfigFile(explicitPath)
	if path == "" {
		if explicitPath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
		}
		return &config.File{Sites: make(map[string]config.SiteConfig)}, nil
	}

	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return cf, nil
}

// applyFileDefaults copies the values set in the file over the built-in
// defaults.
func applyFileDefaults(cfg *config.Config, d config.Defaults) {
	if d.Level != nil {
		cfg.MaxLevel = *d.Level
	}
	if d.Path != "" {
		cfg.OutputDir = d.Path
	}
	if d.Recursive != nil {
		cfg.Recursive = *d.Recursive
	}
	if d.Proxy != "" {
		cfg.ProxyAddress = d.Proxy
	}
}

// runCrawl runs the crawl, download and history steps and writes the run
// report. A cancelled run still writes its partial report and then returns
// errInterrupted.
func runCrawl(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) error {
	crawlCfg, err := cfg.CrawlConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger.InfoContext(ctx, "starting crawl",
		"seed", crawlCfg.Seed(),
		"recursive", crawlCfg.Recursive(),
		"max_level", crawlCfg.MaxLevel(),
		"output_dir", crawlCfg.OutputDir(),
	)

	fetcherOpts := []fetcher.Option{fetcher.WithMaxBodySize(cfg.BodyLimit())}

	site := cfg.SiteConfigs.GetSiteConfig(crawlCfg.Domain())
	if site.Cookie != "" {
		fetcherOpts = append(fetcherOpts, fetcher.WithCookie(site.Cookie))
	}
	if len(site.Headers) > 0 {
		fetcherOpts = append(fetcherOpts, fetcher.WithHeaders(site.Headers))
	}

	switch {
	case cfg.ProxyAddress != "":
		client, err := connectProxy(ctx, cfg.ProxyAddress)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "proxy connection verified", "address", cfg.ProxyAddress)
		fetcherOpts = append(fetcherOpts, fetcher.WithDialer(client.Dialer()))
	case cfg.UseTor:
		client, embeddedTor, err := startEmbeddedTor(ctx, cfg, stderr, logger)
		if err != nil {
			return err
		}
		defer func() {
			logger.InfoContext(ctx, "stopping embedded Tor daemon")
			if err := embeddedTor.Stop(); err != nil {
				logger.ErrorContext(ctx, "failed to stop embedded Tor", "error", err)
			}
		}()
		fetcherOpts = append(fetcherOpts, fetcher.WithDialer(client.Dialer()))
	}

	f := fetcher.New(fetcherOpts...)

	var emitter progress.Emitter = progress.NewLogSink(logger)
	if !cfg.Quiet {
		emitter = progress.Multi(progress.NewTerminalSink(stderr), emitter)
	}
	stepOpts := []pipeline.StepOption{
		pipeline.WithEmitter(emitter),
		pipeline.WithStepLogger(logger),
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewCrawlStep(f, crawlCfg, stepOpts...),
		pipeline.NewDownloadStep(f, crawlCfg.OutputDir(), stepOpts...),
	)

	if cfg.SaveHistory {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		p.AddStep(pipeline.NewHistoryStep(db, logger))
	}

	runReport := model.NewRunReport(crawlCfg.Seed())
	execErr := p.Execute(ctx, runReport)

	if err := outputReport(cfg, runReport, stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if runReport.Cancelled {
		return errInterrupted
	}
	return execErr
}

// connectProxy creates a SOCKS5 client and checks that the proxy answers.
func connectProxy(ctx context.Context, address string) (*proxy.Client, error) {
	client, err := proxy.NewClient(address)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy client: %w", err)
	}
	if status := client.CheckConnection(ctx); status != proxy.StatusOK {
		return nil, fmt.Errorf("proxy check failed: %s (make sure a SOCKS5 proxy is running at %s): %w",
			status, address, status.Err())
	}
	return client, nil
}

// startEmbeddedTor starts an embedded Tor daemon and returns a client for
// its SOCKS port.
func startEmbeddedTor(ctx context.Context, cfg *config.Config, stderr io.Writer, logger *slog.Logger) (*proxy.Client, *proxy.EmbeddedTor, error) {
	fmt.Fprintln(stderr, "Starting embedded Tor daemon...")
	fmt.Fprintf(stderr, "This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")

	embeddedTor := proxy.NewEmbeddedTor(proxy.WithStartupTimeout(cfg.TorStartupTimeout))
	if err := embeddedTor.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	logger.InfoContext(ctx, "embedded Tor daemon started",
		"socks_addr", embeddedTor.SocksAddr(),
		"control_addr", embeddedTor.ControlAddr(),
	)

	client, err := embeddedTor.NewClient()
	if err != nil {
		_ = embeddedTor.Stop() //nolint:errcheck // best effort
		return nil, nil, fmt.Errorf("failed to create Tor client: %w", err)
	}
	if status := client.CheckConnection(ctx); status != proxy.StatusOK {
		_ = embeddedTor.Stop() //nolint:errcheck // best effort
		return nil, nil, fmt.Errorf("embedded Tor proxy check failed: %s", status)
	}

	return client, embeddedTor, nil
}

// outputReport writes the run report in the requested format to the report
// file, or to stdout.
func outputReport(cfg *config.Config, runReport *model.RunReport, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		f, err := createReportFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
	_, err := w.Write(runReport)
	return err
}

// createReportFile creates path and its parent directories. Reports list
// the crawled URLs, so the file is only readable by the owner.
func createReportFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // user-chosen report path
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
