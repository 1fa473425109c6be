package types

import "time"

// HTTPConfig holds shared HTTP settings for calls to the search service.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "buffet-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429/503. Zero selects the default,
	// a negative value disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CacheConfig sizes one client-side response cache.
type CacheConfig struct {
	// TTL is the maximum age of an entry, measured from insertion.
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// MaxEntries caps the number of entries; the least recently used entry
	// is evicted when a Set exceeds it.
	MaxEntries int `json:"max_entries" yaml:"max_entries"`
}

// SearchBoxConfig holds settings for one search box and its network client.
type SearchBoxConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the search service root; /search and /search-suggestions
	// are resolved against it.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is sent as X-API-Key when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// CitySlug scopes queries and suggestions to one city (optional).
	CitySlug string `json:"city_slug,omitempty" yaml:"city_slug,omitempty"`

	// ResultLimit is the limit parameter sent with every search (default 8).
	ResultLimit int `json:"result_limit" yaml:"result_limit"`

	// MinQueryLength is the shortest query, in characters, that is sent to
	// the service (default 2).
	MinQueryLength int `json:"min_query_length" yaml:"min_query_length"`

	// Debounce is the quiet period after the last keystroke before a query
	// is committed (default 200ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce"`

	// BlurGrace delays closing the dropdown after focus is lost so a pending
	// pointer selection can register (default 150ms).
	BlurGrace time.Duration `json:"blur_grace" yaml:"blur_grace"`

	// Results sizes the search result cache (default 60s, 50 entries).
	Results CacheConfig `json:"results" yaml:"results"`

	// Suggestions sizes the popular-suggestion cache (default 1h, 20 entries).
	Suggestions CacheConfig `json:"suggestions" yaml:"suggestions"`
}

// FixtureConfig holds settings for the local fixture backend.
type FixtureConfig struct {
	// Addr is the listen address (default ":8787").
	Addr string `json:"addr" yaml:"addr"`

	// DataFile is the YAML dataset served by the fixture.
	DataFile string `json:"data_file" yaml:"data_file"`

	// Latency is an artificial delay added to every response, useful for
	// exercising out-of-order completions by hand.
	Latency time.Duration `json:"latency" yaml:"latency"`
}

// Config groups every setting read by the CLI.
type Config struct {
	LogLevel  string          `json:"log_level" yaml:"log_level"`
	SearchBox SearchBoxConfig `json:"search" yaml:"search"`
	Fixture   FixtureConfig   `json:"fixture" yaml:"fixture"`
}

// Default values shared by the CLI and the packages that fall back to them.
const (
	DefaultUserAgent      = "buffet-search/0.1"
	DefaultBaseURL        = "http://localhost:8787"
	DefaultResultLimit    = 8
	DefaultMinQueryLength = 2
	DefaultDebounce       = 200 * time.Millisecond
	DefaultBlurGrace      = 150 * time.Millisecond
	DefaultTimeout        = 10 * time.Second
	DefaultFixtureAddr    = ":8787"
)

// DefaultResultCache is the sizing of the search result cache.
var DefaultResultCache = CacheConfig{TTL: 60 * time.Second, MaxEntries: 50}

// DefaultSuggestionCache is the sizing of the popular-suggestion cache.
var DefaultSuggestionCache = CacheConfig{TTL: time.Hour, MaxEntries: 20}

// DefaultSearchBoxConfig returns a SearchBoxConfig with every default filled in.
func DefaultSearchBoxConfig() SearchBoxConfig {
	return SearchBoxConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
		},
		BaseURL:        DefaultBaseURL,
		ResultLimit:    DefaultResultLimit,
		MinQueryLength: DefaultMinQueryLength,
		Debounce:       DefaultDebounce,
		BlurGrace:      DefaultBlurGrace,
		Results:        DefaultResultCache,
		Suggestions:    DefaultSuggestionCache,
	}
}

// WithDefaults returns a copy in which zero-valued settings take their defaults.
func (c SearchBoxConfig) WithDefaults() SearchBoxConfig {
	d := DefaultSearchBoxConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.ResultLimit <= 0 {
		c.ResultLimit = d.ResultLimit
	}
	if c.MinQueryLength <= 0 {
		c.MinQueryLength = d.MinQueryLength
	}
	if c.Debounce <= 0 {
		c.Debounce = d.Debounce
	}
	if c.BlurGrace <= 0 {
		c.BlurGrace = d.BlurGrace
	}
	c.Results = c.Results.withDefaults(d.Results)
	c.Suggestions = c.Suggestions.withDefaults(d.Suggestions)
	return c
}

func (c CacheConfig) withDefaults(d CacheConfig) CacheConfig {
	if c.TTL <= 0 {
		c.TTL = d.TTL
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = d.MaxEntries
	}
	return c
}
