// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RegistryConfig holds the settings for talking to the bibliographic
// registries. It is passed to the registry client at construction; the
// internal packages never read global configuration.
type RegistryConfig struct {
	// Email is the contact address sent to registries that ask callers to
	// identify themselves (Crossref mailto, NCBI ID converter).
	Email string `json:"email" yaml:"email"`

	// UserAgent is sent with every request, e.g. "pubparse/0.2
	// (mailto:user@example.com)". Registries rate-limit or block
	// unidentified traffic, so this is not cosmetic.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// NCBIRateLimit caps outbound requests per second to NCBI endpoints
	// (default 3, the documented limit for keyless access). Other
	// registries are not throttled.
	NCBIRateLimit float64 `json:"ncbi_rate_limit" yaml:"ncbi_rate_limit"`

	// CachePath is the SQLite file backing the HTTP response cache.
	// Empty disables caching.
	CachePath string `json:"cache_path" yaml:"cache_path"`
}

// ResolveConfig holds the settings for the resolution pipeline.
type ResolveConfig struct {
	// SearchRows is how many candidates a bibliographic search requests
	// (default 3).
	SearchRows int `json:"search_rows" yaml:"search_rows"`

	// CloseThreshold is the second-to-best score ratio above which a
	// top-ranked peer-review record is treated as a false positive
	// (default 0.75).
	CloseThreshold float64 `json:"close_threshold" yaml:"close_threshold"`

	// AlmostThreshold is the score ratio at or above which a top-ranked
	// preprint yields to a journal article ranked second (default 0.90).
	AlmostThreshold float64 `json:"almost_threshold" yaml:"almost_threshold"`
}

// RenderConfig holds the settings for the HTML bibliography.
type RenderConfig struct {
	// Title is the page heading.
	Title string `json:"title" yaml:"title"`

	// AuthorFile is a plain-text file with one in-group family name per
	// line; matching authors are highlighted in the output.
	AuthorFile string `json:"author_file" yaml:"author_file"`
}

// ScrapeConfig holds the settings for the group-member name scraper.
type ScrapeConfig struct {
	// URLs are the people pages to scrape.
	URLs []string `json:"urls" yaml:"urls"`

	// OutputPath is where the sorted last-name list is written.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}
