// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry queries the external bibliographic registries: the NCBI
// Literature Citation Exporter, the NCBI ID Converter, the Crossref works
// API, and doi.org content negotiation.
//
// Every lookup fails softly: transport failures and business-level misses
// are absorbed at this boundary and returned as an absent (nil) result
// with a diagnostic on the client's log writer. Errors are reserved for
// request construction and context cancellation.
//
// NCBI requests share a rate limiter (the Citation Exporter is the
// heavily-used registry and NCBI caps keyless callers at 3 requests per
// second); Crossref and doi.org requests are not throttled. Both channels
// sit on top of the same SQLite response cache, and cache hits bypass the
// limiter, so repeated runs against unchanged input incur no network cost.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/sfb1451/pubparse/pkg/types"
)

// Database selects which Citation Exporter database a PubMed-style
// identifier is looked up in.
type Database string

const (
	DatabasePubmed Database = "pubmed"
	DatabasePMC    Database = "pmc"
)

const (
	defaultCtxpBase     = "https://api.ncbi.nlm.nih.gov/lit/ctxp/v1"
	defaultIDConvBase   = "https://www.ncbi.nlm.nih.gov/pmc/utils/idconv/v1.0/"
	defaultCrossrefBase = "https://api.crossref.org/works"
	defaultDOIBase      = "https://doi.org"

	defaultTimeout  = 30 * time.Second
	defaultNCBIRate = 3.0

	// toolName identifies this application to the NCBI ID Converter.
	toolName = "pubparse"

	cslContentType = "application/vnd.citationstyles.csl+json"
)

// Client talks to the bibliographic registries. Construct with NewClient;
// the zero value is not usable.
type Client struct {
	cfg   types.RegistryConfig
	ncbi  *http.Client // rate limited
	web   *http.Client // unthrottled
	cache *Cache
	log   io.Writer

	ctxpBase     string
	idconvBase   string
	crossrefBase string
	doiBase      string
}

// Option configures a Client.
type Option func(*Client)

// WithLogWriter directs diagnostic messages (misses, HTTP failures) to w.
func WithLogWriter(w io.Writer) Option {
	return func(c *Client) { c.log = w }
}

// WithCtxpBase overrides the Citation Exporter base URL (for testing).
func WithCtxpBase(u string) Option {
	return func(c *Client) { c.ctxpBase = u }
}

// WithIDConvBase overrides the ID Converter base URL (for testing).
func WithIDConvBase(u string) Option {
	return func(c *Client) { c.idconvBase = u }
}

// WithCrossrefBase overrides the Crossref works base URL (for testing).
func WithCrossrefBase(u string) Option {
	return func(c *Client) { c.crossrefBase = u }
}

// WithDOIBase overrides the doi.org base URL (for testing).
func WithDOIBase(u string) Option {
	return func(c *Client) { c.doiBase = u }
}

// NewClient builds a registry client from cfg. When cfg.CachePath is set
// the SQLite response cache is opened (created if missing) and shared by
// both transport channels.
func NewClient(cfg types.RegistryConfig, opts ...Option) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.NCBIRateLimit <= 0 {
		cfg.NCBIRateLimit = defaultNCBIRate
	}

	c := &Client{
		cfg:          cfg,
		log:          io.Discard,
		ctxpBase:     defaultCtxpBase,
		idconvBase:   defaultIDConvBase,
		crossrefBase: defaultCrossrefBase,
		doiBase:      defaultDOIBase,
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.CachePath != "" {
		cache, err := OpenCache(cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("opening response cache: %w", err)
		}
		c.cache = cache
	}

	// The cache wraps the limiter so cached NCBI responses do not
	// consume rate budget.
	limiter := rate.NewLimiter(rate.Limit(cfg.NCBIRateLimit), 1)
	ncbiTransport := http.RoundTripper(&throttledTransport{
		limiter: limiter,
		next:    http.DefaultTransport,
	})
	webTransport := http.DefaultTransport
	if c.cache != nil {
		ncbiTransport = &cachingTransport{cache: c.cache, next: ncbiTransport}
		webTransport = &cachingTransport{cache: c.cache, next: webTransport}
	}

	c.ncbi = &http.Client{Timeout: cfg.Timeout, Transport: ncbiTransport}
	c.web = &http.Client{Timeout: cfg.Timeout, Transport: webTransport}
	return c, nil
}

// Close releases the response cache, if one is open.
func (c *Client) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}

func (c *Client) userAgent() string {
	if c.cfg.UserAgent != "" {
		return c.cfg.UserAgent
	}
	if c.cfg.Email != "" {
		return fmt.Sprintf("%s (mailto:%s)", toolName, c.cfg.Email)
	}
	return toolName
}

func (c *Client) logf(format string, args ...any) {
	fmt.Fprintf(c.log, format, args...)
}

func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())
	return req, nil
}
