// Package main provides the entry point for the shopcrawl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for shopcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shopcrawl",
		Short: "Two-level web scraper for product catalogs",
		Long: `Shopcrawl is a two-level web scraper for product catalogs.
It paginates through listing pages, follows every item link, and extracts
structured records (title, price, description, and more) using CSS
selector profiles.

Requests are rate limited by a politeness delay and retried on transient
failures. Records are exported as CSV, JSON, or a Markdown report.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
