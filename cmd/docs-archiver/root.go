package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for docs-archiver.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs-archiver",
		Short: "Archive documentation websites as local markdown",
		Long: `docs-archiver crawls a documentation website, extracts each page's embedded
content payload, converts it to markdown via the Gemini API, and persists the
result to a flat local archive.

Crawling is resumable: with --skip-existing, pages whose archive file already
exists are not fetched again, so an interrupted crawl picks up where it left
off on the next run.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewReportCmd())
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
