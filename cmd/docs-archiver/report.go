package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/junhoyeo/docs-archiver/internal/config"
	"github.com/junhoyeo/docs-archiver/internal/database"
	"github.com/junhoyeo/docs-archiver/internal/model"
	"github.com/junhoyeo/docs-archiver/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [site]",
		Short: "Show crawl history recorded in past runs",
		Long: `Report reads the crawl-history database and shows what past runs did.

Without arguments it lists every site that has been crawled. With a site
argument it shows the most recent run for that site, including every page's
outcome.

Examples:
  # List crawled sites
  docs-archiver report

  # Show the latest run for a site
  docs-archiver report docs.example.com

  # Same, as a Markdown document
  docs-archiver report docs.example.com --markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReportCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	opts, err := buildReportOptions(cmd, getVerboseFlag(cmd))
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no crawl history found (run a crawl first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	if len(args) == 0 {
		sites, err := db.ListSites(ctx)
		if err != nil {
			return err
		}
		if len(sites) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No crawl history recorded yet.")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Crawled sites:")
		for _, site := range sites {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", site)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'docs-archiver report <site>' for the latest run.")
		return nil
	}

	site := args[0]
	run, err := db.LatestRun(ctx, site)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no crawl history for site %q", site)
	}

	pages, err := db.PageRecords(ctx, run.ID)
	if err != nil {
		return err
	}

	summary := &model.CrawlSummary{
		Site:       run.Site,
		StartURL:   run.StartURL,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Pages:      pages,
	}

	var writer report.Writer
	switch {
	case opts.json:
		writer = report.NewJSONWriter(cmd.OutOrStdout(), report.WithIndent(true))
	case opts.markdown:
		writer = report.NewMarkdownWriter(cmd.OutOrStdout())
	default:
		writer = report.NewSimpleWriter(cmd.OutOrStdout(), report.WithVerbose(true))
	}

	_, err = writer.Write(summary)
	return err
}
