package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/shopcrawl/shopcrawl/internal/config"
	"github.com/shopcrawl/shopcrawl/internal/crawler"
	"github.com/shopcrawl/shopcrawl/internal/export"
	"github.com/shopcrawl/shopcrawl/internal/extractor"
	"github.com/shopcrawl/shopcrawl/internal/fetcher"
	"github.com/shopcrawl/shopcrawl/internal/log"
	"github.com/shopcrawl/shopcrawl/internal/model"
	"github.com/spf13/cobra"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [start-url]",
		Short: "Scrape a product catalog into CSV, JSON, or a report",
		Long: `Scrape crawls a product catalog starting from a listing page.

It follows every item link on the listing, extracts the configured fields
from each item page, then follows the next-page link and repeats until the
page limit is reached or pagination ends. Each record is stamped with the
time it was scraped.

Examples:
  # Scrape a catalog and print a summary
  shopcrawl scrape https://books.example.com/catalog

  # Export records to CSV and JSON
  shopcrawl scrape --csv books.csv --json books.json https://books.example.com/catalog

  # Crawl faster: 4 item workers, no politeness delay
  shopcrawl scrape -w 4 -d 0 https://shop.example.com/products

  # Use a custom selector profile
  shopcrawl scrape -c myshop.yaml https://shop.example.com/products

Profile file (.shopcrawl) example:
  sites:
    books.example.com:
      listing: "article.product_pod h3 a"
      nextPage: "li.next a"
      fields:
        - name: title
          query: "div.product_main h1"
        - name: price
          query: "p.price_color"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScrapeCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of listing pages to paginate through")
	cmd.Flags().DurationP("delay", "d", config.DefaultDelay,
		"Pause between HTTP requests")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().IntP("retries", "r", config.DefaultMaxRetries,
		"Number of attempts per URL, including the first")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent item-page fetches")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Bool("respect-robots", false,
		"Skip URLs disallowed by the site's robots.txt")

	// Profile file
	cmd.Flags().StringP("profile", "c", "",
		"Selector profile file path (default: .shopcrawl in current or home directory)")

	// Export flags
	cmd.Flags().String("csv", "",
		"Write records to the specified CSV file")
	cmd.Flags().String("json", "",
		"Write records to the specified JSON file")
	cmd.Flags().StringP("report", "o", "",
		"Write a Markdown report to the specified file path (creates directories if needed)")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScrape(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxRetries, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.RespectRobots, err = cmd.Flags().GetBool("respect-robots")
	if err != nil {
		return nil, err
	}

	cfg.ProfilePath, err = cmd.Flags().GetString("profile")
	if err != nil {
		return nil, err
	}

	// Load selector profiles from the profile file.
	// If user explicitly specified a profile path, error if not found.
	// If no path specified, silently use built-in defaults if no file found.
	explicitProfilePath := cfg.ProfilePath != ""
	profilePath := config.FindProfileFile(cfg.ProfilePath)

	if profilePath != "" {
		cfg.Profiles, err = config.LoadProfileFile(profilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile file %s: %w", profilePath, err)
		}
	} else if explicitProfilePath {
		// User explicitly specified a profile file that doesn't exist
		return nil, fmt.Errorf("profile file not found: %s", cfg.ProfilePath)
	} else {
		// Use built-in defaults if no file found and user didn't explicitly specify one
		cfg.Profiles = &config.File{
			Sites: make(map[string]config.SiteProfile),
		}
	}

	cfg.CSVFile, err = cmd.Flags().GetString("csv")
	if err != nil {
		return nil, err
	}

	cfg.JSONFile, err = cmd.Flags().GetString("json")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Get positional argument (start URL)
	if len(args) > 0 {
		cfg.StartURL = args[0]
	}

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// The secure handler masks cookie and authorization values so profile
// credentials never end up in terminal scrollback.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, verbose)
}

// runScrape executes the crawl and writes the configured outputs.
func runScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	start, err := url.Parse(cfg.StartURL)
	if err != nil {
		return fmt.Errorf("invalid start URL %q: %w", cfg.StartURL, err)
	}

	// Resolve the selector profile for the start host
	profiles := cfg.Profiles
	if profiles == nil {
		profiles = &config.File{Sites: make(map[string]config.SiteProfile)}
	}
	profile := profiles.ProfileFor(start.Host)

	logger.Info("starting scrape",
		"startURL", cfg.StartURL,
		"maxPages", cfg.MaxPages,
		"workers", cfg.Workers,
		"respectRobots", cfg.RespectRobots,
	)

	fetchOpts := []fetcher.Option{
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithDelay(cfg.Delay),
		fetcher.WithMaxRetries(cfg.MaxRetries),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
	}
	if profile.Cookie != "" {
		fetchOpts = append(fetchOpts, fetcher.WithCookie(profile.Cookie))
	}
	if len(profile.Headers) > 0 {
		fetchOpts = append(fetchOpts, fetcher.WithHeaders(profile.Headers))
	}
	if cfg.RespectRobots {
		fetchOpts = append(fetchOpts, fetcher.WithRobots())
	}

	c := crawler.New(
		fetcher.New(fetchOpts...),
		extractor.NewSelectorExtractor(profile),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithLogger(logger),
	)

	fmt.Printf("Scraping %s...\n", cfg.StartURL)

	result, scrapeErr := c.Scrape(ctx, cfg.StartURL)
	if scrapeErr != nil {
		logger.Error("scrape failed", "startURL", cfg.StartURL, "error", scrapeErr)
	}

	// A crawl that never got past the start page has nothing worth
	// exporting. Skipping the writes keeps output files from a previous
	// run intact.
	if errors.Is(scrapeErr, crawler.ErrStartPageUnreachable) {
		return scrapeErr
	}

	// Partial results from a cancelled or failed crawl are still exported.
	if err := writeOutputs(cfg, result); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	return scrapeErr
}

// writeOutputs writes the configured export files and prints the
// human-readable summary to stdout.
func writeOutputs(cfg *config.Config, result *model.Result) error {
	if cfg.CSVFile != "" {
		err := writeFile(cfg.CSVFile, result, func(w io.Writer) export.Writer {
			return export.NewCSVWriter(w)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d records to %s\n", len(result.Records), cfg.CSVFile)
	}

	if cfg.JSONFile != "" {
		err := writeFile(cfg.JSONFile, result, func(w io.Writer) export.Writer {
			return export.NewJSONWriter(w, export.WithPrettyPrint())
		})
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d records to %s\n", len(result.Records), cfg.JSONFile)
	}

	if cfg.ReportFile != "" {
		err := writeFile(cfg.ReportFile, result, func(w io.Writer) export.Writer {
			return export.NewMarkdownWriter(w)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Wrote report to %s\n", cfg.ReportFile)
	}

	// Human-readable summary (always printed)
	writer := export.NewSimpleWriter(os.Stdout, export.WithVerbose(cfg.Verbose))
	_, err := writer.Write(result)
	return err
}

// writeFile creates the output file and streams the result through the
// writer that build returns for it. Parent directories are created as
// needed.
func writeFile(path string, result *model.Result, build func(io.Writer) export.Writer) error {
	// Create directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Create/overwrite the output file with secure permissions (0600)
	// Records scraped from authenticated catalogs should only be readable
	// by the owner
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if _, err := build(f).Write(result); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
