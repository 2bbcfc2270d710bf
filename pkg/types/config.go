// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that reach the network.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "fragmapper/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for the catalog index clients.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults bounds the candidate set returned per query (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// ParfumoAPIKey is an optional key for the Parfumo search endpoint.
	ParfumoAPIKey string `json:"parfumo_api_key,omitempty" yaml:"parfumo_api_key,omitempty"`

	// FragranticaAPIKey is an optional key for the Fragrantica search endpoint.
	FragranticaAPIKey string `json:"fragrantica_api_key,omitempty" yaml:"fragrantica_api_key,omitempty"`

	// InterQueryDelay is the delay between consecutive queries to the
	// same catalog when queries run sequentially (default 500ms).
	InterQueryDelay time.Duration `json:"inter_query_delay" yaml:"inter_query_delay"`
}

// RulesFileConfig locates the externally editable rule set.
type RulesFileConfig struct {
	// Path is the rules YAML file. Empty means the built-in defaults.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// HotReload re-reads the file between requests when its
	// modification time changes (default true).
	HotReload bool `json:"hot_reload" yaml:"hot_reload"`
}

// HistoryConfig holds settings for the resolution history store.
type HistoryConfig struct {
	// Dir is the directory holding the history SQLite database.
	// Empty disables history recording.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// MaxList is the default page size for history listings (default 20).
	MaxList int `json:"max_list" yaml:"max_list"`
}

// ResolverConfig groups all stage configurations for one resolver.
type ResolverConfig struct {
	Catalog CatalogConfig   `json:"catalog" yaml:"catalog"`
	Rules   RulesFileConfig `json:"rules" yaml:"rules"`
	History HistoryConfig   `json:"history" yaml:"history"`
}
