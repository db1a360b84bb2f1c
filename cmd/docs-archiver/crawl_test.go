package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/junhoyeo/docs-archiver/internal/config"
	"github.com/junhoyeo/docs-archiver/internal/model"
)

// TestNewCrawlCmd tests the crawl command creation and flags.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crawl" {
			t.Errorf("expected use 'crawl', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			shorthand string
			defValue  string
		}{
			{name: "base-url", shorthand: "", defValue: ""},
			{name: "start-url", shorthand: "", defValue: ""},
			{name: "site", shorthand: "", defValue: "[]"},
			{name: "skip-existing", shorthand: "s", defValue: "false"},
			{name: "output", shorthand: "o", defValue: config.DefaultOutputDir},
			{name: "delay", shorthand: "", defValue: config.DefaultCrawlDelay.String()},
			{name: "timeout", shorthand: "t", defValue: config.DefaultTimeout.String()},
			{name: "user-agent", shorthand: "", defValue: ""},
			{name: "index-alias", shorthand: "", defValue: ""},
			{name: "model", shorthand: "", defValue: config.DefaultModel},
			{name: "batch", shorthand: "b", defValue: "3"},
			{name: "config", shorthand: "c", defValue: ""},
			{name: "json", shorthand: "j", defValue: "false"},
			{name: "markdown", shorthand: "m", defValue: "false"},
			{name: "report-file", shorthand: "", defValue: ""},
		}

		for _, tt := range tests {
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected flag %q", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("flag %q: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("flag %q: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		}
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Fatal("expected Args validator")
		}
		if err := cmd.Args(cmd, []string{"unexpected"}); err == nil {
			t.Error("expected error for positional argument")
		}
	})
}

// TestBuildCrawlConfig tests configuration assembly from environment and flags.
func TestBuildCrawlConfig(t *testing.T) {
	t.Run("reads environment defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv(config.EnvAPIKey, "test-key")
		t.Setenv(config.EnvBaseURL, "https://docs.example.com")
		t.Setenv(config.EnvStartURL, "https://docs.example.com/starthere")

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildCrawlConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.APIKey != "test-key" {
			t.Errorf("expected API key from environment, got %q", cfg.APIKey)
		}
		if cfg.BaseURL != "https://docs.example.com" {
			t.Errorf("expected base URL from environment, got %q", cfg.BaseURL)
		}
		if cfg.StartURL != "https://docs.example.com/starthere" {
			t.Errorf("expected start URL from environment, got %q", cfg.StartURL)
		}
	})

	t.Run("flags override environment", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv(config.EnvBaseURL, "https://env.example.com")

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--base-url", "https://flag.example.com"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildCrawlConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.BaseURL != "https://flag.example.com" {
			t.Errorf("expected flag to win, got %q", cfg.BaseURL)
		}
	})

	t.Run("applies flag values", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv(config.EnvAPIKey, "test-key")

		cmd := NewCrawlCmd()
		args := []string{
			"--base-url", "https://docs.example.com",
			"--skip-existing",
			"--output", "archive",
			"--delay", "250ms",
			"--timeout", "10s",
			"--index-alias", "introduction",
			"--site", "one", "--site", "two",
			"--batch", "2",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildCrawlConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !cfg.SkipExisting {
			t.Error("expected skip-existing to be set")
		}
		if cfg.OutputDir != "archive" {
			t.Errorf("expected output dir 'archive', got %q", cfg.OutputDir)
		}
		if cfg.Delay != 250*time.Millisecond {
			t.Errorf("expected delay 250ms, got %v", cfg.Delay)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
		}
		if cfg.IndexAlias != "introduction" {
			t.Errorf("expected index alias 'introduction', got %q", cfg.IndexAlias)
		}
		if len(cfg.Sites) != 2 || cfg.Sites[0] != "one" || cfg.Sites[1] != "two" {
			t.Errorf("expected sites [one two], got %v", cfg.Sites)
		}
		if cfg.BatchSize != 2 {
			t.Errorf("expected batch size 2, got %d", cfg.BatchSize)
		}
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		cmd := NewCrawlCmd()
		missing := filepath.Join(t.TempDir(), "nope.yml")
		if err := cmd.ParseFlags([]string{"--config", missing}); err != nil {
			t.Fatal(err)
		}

		_, err := buildCrawlConfig(cmd)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("loads explicit config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "sites.yml")
		content := `sites:
  example:
    baseURL: https://docs.example.com
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--config", configPath}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildCrawlConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		site, ok := cfg.SiteConfigs.GetSiteConfig("example")
		if !ok {
			t.Fatal("expected site 'example' from config file")
		}
		if site.BaseURL != "https://docs.example.com" {
			t.Errorf("unexpected base URL %q", site.BaseURL)
		}
	})
}

// TestBuildReportOptions tests report format flag handling.
func TestBuildReportOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults to plain text", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}

		opts, err := buildReportOptions(cmd, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.json || opts.markdown {
			t.Error("expected no format flags set")
		}
		if !opts.verbose {
			t.Error("expected verbose to be carried through")
		}
	})

	t.Run("rejects json combined with markdown", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--json", "--markdown"}); err != nil {
			t.Fatal(err)
		}

		if _, err := buildReportOptions(cmd, false); err == nil {
			t.Error("expected error for conflicting format flags")
		}
	})

	t.Run("works without report-file flag", func(t *testing.T) {
		t.Parallel()

		cmd := NewReportCmd()
		if err := cmd.ParseFlags([]string{"-j"}); err != nil {
			t.Fatal(err)
		}

		opts, err := buildReportOptions(cmd, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !opts.json {
			t.Error("expected json format")
		}
	})
}

// TestBuildReportWriter tests report writer assembly.
func TestBuildReportWriter(t *testing.T) {
	t.Parallel()

	summary := &model.CrawlSummary{
		Site:       "docs.example.com",
		StartURL:   "https://docs.example.com",
		StartedAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 6, 1, 10, 5, 0, 0, time.UTC),
	}

	t.Run("writes markdown report file", func(t *testing.T) {
		t.Parallel()

		reportPath := filepath.Join(t.TempDir(), "reports", "crawl.md")
		writer, closeWriter, err := buildReportWriter(reportOptions{file: reportPath})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := writer.Write(summary); err != nil {
			t.Fatalf("unexpected write error: %v", err)
		}
		if err := closeWriter(); err != nil {
			t.Fatalf("unexpected close error: %v", err)
		}

		content, err := os.ReadFile(reportPath) //nolint:gosec // test-controlled path
		if err != nil {
			t.Fatalf("failed to read report file: %v", err)
		}
		if !strings.Contains(string(content), "# Crawl Report") {
			t.Error("expected markdown report content")
		}
	})

	t.Run("no file means noop closer", func(t *testing.T) {
		t.Parallel()

		writer, closeWriter, err := buildReportWriter(reportOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if writer == nil {
			t.Fatal("expected writer")
		}
		if err := closeWriter(); err != nil {
			t.Errorf("unexpected close error: %v", err)
		}
	})
}

func TestHostOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rawURL string
		want   string
	}{
		{name: "full url", rawURL: "https://docs.example.com/guide", want: "docs.example.com"},
		{name: "no host", rawURL: "not a url", want: "not a url"},
		{name: "empty", rawURL: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := hostOf(tt.rawURL); got != tt.want {
				t.Errorf("hostOf(%q) = %q, want %q", tt.rawURL, got, tt.want)
			}
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	if got := firstNonEmpty("", "second", "third"); got != "second" {
		t.Errorf("expected 'second', got %q", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
