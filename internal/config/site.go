package config

// SiteConfig holds configuration for a single documentation site.
// Sites are declared in the configuration file and can be crawled by name;
// per-site values override the file's defaults, which in turn fill gaps in
// the command-line configuration.
type SiteConfig struct {
	// BaseURL is the site origin, e.g. "https://docs.example.com".
	BaseURL string `yaml:"baseURL,omitempty"`

	// StartURL is where the crawl starts. Empty means BaseURL.
	StartURL string `yaml:"startURL,omitempty"`

	// OutputDir is the archive directory for this site.
	OutputDir string `yaml:"outputDir,omitempty"`

	// UserAgent overrides the User-Agent header for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// IndexAlias is the landing-page path (without leading slash) that
	// shares the root page's archive file.
	IndexAlias string `yaml:"indexAlias,omitempty"`
}

// File represents the structure of the .docs-archiver.yml configuration file.
type File struct {
	// Sites maps site names to their configurations. The name is a short
	// handle used on the command line (e.g. "example"), not a URL.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a named site, merging the
// site-specific configuration over the file's defaults. The boolean reports
// whether the site is declared in the file.
func (cf *File) GetSiteConfig(name string) (SiteConfig, bool) {
	result := cf.Defaults

	site, ok := cf.Sites[name]
	if !ok {
		return result, false
	}

	if site.BaseURL != "" {
		result.BaseURL = site.BaseURL
	}
	if site.StartURL != "" {
		result.StartURL = site.StartURL
	}
	if site.OutputDir != "" {
		result.OutputDir = site.OutputDir
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if site.IndexAlias != "" {
		result.IndexAlias = site.IndexAlias
	}

	return result, true
}
