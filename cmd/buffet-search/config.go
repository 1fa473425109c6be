// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/buffet-search/internal/secrets"
	"github.com/pdiddy/buffet-search/pkg/types"
)

// Config keys. Nested keys mirror the YAML layout of types.Config; the
// matching environment variable is BUFFET_SEARCH_ plus the key with dots
// replaced by underscores.
const (
	keyLogLevel   = "log_level"
	keySecretsDir = "secrets_dir"

	keyBaseURL        = "search.base_url"
	keyAPIKey         = "search.api_key"
	keyCitySlug       = "search.city_slug"
	keyResultLimit    = "search.result_limit"
	keyMinQueryLength = "search.min_query_length"
	keyDebounce       = "search.debounce"
	keyBlurGrace      = "search.blur_grace"
	keyTimeout        = "search.timeout"
	keyUserAgent      = "search.user_agent"
	keyMaxRetries     = "search.max_retries"
	keyResultsTTL     = "search.results.ttl"
	keyResultsMax     = "search.results.max_entries"
	keySuggestTTL     = "search.suggestions.ttl"
	keySuggestMax     = "search.suggestions.max_entries"

	keyFixtureAddr    = "fixture.addr"
	keyFixtureData    = "fixture.data_file"
	keyFixtureLatency = "fixture.latency"
)

func setDefaults() {
	applyDefaults(viper.GetViper())
}

func applyDefaults(v *viper.Viper) {
	d := types.DefaultSearchBoxConfig()
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keySecretsDir, ".secrets/")

	v.SetDefault(keyBaseURL, d.BaseURL)
	v.SetDefault(keyResultLimit, d.ResultLimit)
	v.SetDefault(keyMinQueryLength, d.MinQueryLength)
	v.SetDefault(keyDebounce, d.Debounce)
	v.SetDefault(keyBlurGrace, d.BlurGrace)
	v.SetDefault(keyTimeout, d.Timeout)
	v.SetDefault(keyUserAgent, d.UserAgent)
	v.SetDefault(keyResultsTTL, d.Results.TTL)
	v.SetDefault(keyResultsMax, d.Results.MaxEntries)
	v.SetDefault(keySuggestTTL, d.Suggestions.TTL)
	v.SetDefault(keySuggestMax, d.Suggestions.MaxEntries)

	v.SetDefault(keyFixtureAddr, types.DefaultFixtureAddr)
}

// loadConfig reads every setting from v. Secrets fill in the API key when
// configuration leaves it empty.
func loadConfig(v *viper.Viper) types.Config {
	cfg := types.Config{
		LogLevel: v.GetString(keyLogLevel),
		SearchBox: types.SearchBoxConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    v.GetDuration(keyTimeout),
				UserAgent:  v.GetString(keyUserAgent),
				MaxRetries: v.GetInt(keyMaxRetries),
			},
			BaseURL:        v.GetString(keyBaseURL),
			APIKey:         v.GetString(keyAPIKey),
			CitySlug:       v.GetString(keyCitySlug),
			ResultLimit:    v.GetInt(keyResultLimit),
			MinQueryLength: v.GetInt(keyMinQueryLength),
			Debounce:       v.GetDuration(keyDebounce),
			BlurGrace:      v.GetDuration(keyBlurGrace),
			Results: types.CacheConfig{
				TTL:        v.GetDuration(keyResultsTTL),
				MaxEntries: v.GetInt(keyResultsMax),
			},
			Suggestions: types.CacheConfig{
				TTL:        v.GetDuration(keySuggestTTL),
				MaxEntries: v.GetInt(keySuggestMax),
			},
		},
		Fixture: types.FixtureConfig{
			Addr:     v.GetString(keyFixtureAddr),
			DataFile: v.GetString(keyFixtureData),
			Latency:  v.GetDuration(keyFixtureLatency),
		},
	}
	cfg.SearchBox.APIKey = secretDefault(secrets.SearchAPIKey, cfg.SearchBox.APIKey)
	cfg.SearchBox = cfg.SearchBox.WithDefaults()
	return cfg
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(viper.GetViper())
		cfg.SearchBox.APIKey = secrets.Redact(cfg.SearchBox.APIKey)
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
