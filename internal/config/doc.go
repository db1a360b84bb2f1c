// Package config provides configuration structures and utilities for
// docs-archiver. It defines the crawl options (site URLs, politeness delay,
// skip-existing resume mode), the external converter credential, and the
// optional YAML configuration file with per-site overrides.
package config
