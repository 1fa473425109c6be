// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/rohanthewiz/serr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/buffet-search/internal/fixture"
	"github.com/pdiddy/buffet-search/internal/secrets"
)

var fixtureCmd = &cobra.Command{
	Use:   "fixture",
	Short: "Serve a local stand-in for the search service",
	Long: `Fixture serves GET /search and GET /search-suggestions from a YAML dataset
(the built-in one unless --data is given). Use --latency to slow responses down
and watch the search box discard out-of-order replies.`,
	Args: cobra.NoArgs,
	RunE: runFixture,
}

func init() {
	fixtureCmd.Flags().String("addr", "", "listen address (default :8787)")
	fixtureCmd.Flags().String("data", "", "YAML dataset file")
	fixtureCmd.Flags().Duration("latency", 0, "artificial delay added to every response")
	fixtureCmd.Flags().Bool("require-key", false, "reject requests without the configured API key")

	_ = viper.BindPFlag(keyFixtureAddr, fixtureCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag(keyFixtureData, fixtureCmd.Flags().Lookup("data"))
	_ = viper.BindPFlag(keyFixtureLatency, fixtureCmd.Flags().Lookup("latency"))

	rootCmd.AddCommand(fixtureCmd)
}

func runFixture(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	data, err := fixture.Load(cfg.Fixture.DataFile)
	if err != nil {
		return serr.Wrap(err, "loading fixture data")
	}

	opts := []fixture.ServerOption{fixture.WithVerbose(cfg.LogLevel == "debug")}
	if requireKey, _ := cmd.Flags().GetBool("require-key"); requireKey {
		key := cfg.SearchBox.APIKey
		if key == "" {
			return serr.New("--require-key needs " + secrets.SearchAPIKey + " in the secrets directory or search.api_key in config")
		}
		opts = append(opts, fixture.WithAPIKey(key))
	}

	if err := fixture.NewServer(cfg.Fixture, data, opts...).Run(); err != nil {
		return serr.Wrap(err, "fixture server")
	}
	return nil
}
