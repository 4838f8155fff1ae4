// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for calls to the academic graph API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "topic-tree/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ScholarConfig holds settings for the Semantic Scholar Graph API client.
type ScholarConfig struct {
	// BaseURL is the Graph API root, e.g. "https://api.semanticscholar.org/graph/v1".
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is an optional key sent as x-api-key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retries on HTTP 429/503. Zero makes every
	// call a single best-effort request.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// SearchLimit is the page size requested from the search endpoint (max 100).
	SearchLimit int `json:"search_limit" yaml:"search_limit" mapstructure:"search_limit"`

	// CitationLimit is the page size requested from the citations endpoint (max 1000).
	CitationLimit int `json:"citation_limit" yaml:"citation_limit" mapstructure:"citation_limit"`
}

// TreeConfig holds the default request parameters for a topic-tree run.
type TreeConfig struct {
	// MinYear is the minimum publication year of seed papers (0 disables the filter).
	MinYear int `json:"min_year" yaml:"min_year" mapstructure:"min_year"`

	// Seeds is how many seed papers to list.
	Seeds int `json:"seeds" yaml:"seeds" mapstructure:"seeds"`

	// Children is how many citing papers to list per seed.
	Children int `json:"children" yaml:"children" mapstructure:"children"`
}

// ServeConfig holds settings for the browser front end.
type ServeConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins lists the CORS origins allowed on the JSON API.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// ReadTimeout bounds reading a request.
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout bounds writing a response. A run issues 1+N API calls, so
	// this must be generous.
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all component configurations.
type Config struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Scholar ScholarConfig `json:"scholar" yaml:"scholar" mapstructure:"scholar"`
	Tree    TreeConfig    `json:"tree" yaml:"tree" mapstructure:"tree"`
	Serve   ServeConfig   `json:"serve" yaml:"serve" mapstructure:"serve"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}
