// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"

	"github.com/rohanthewiz/serr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/buffet-search/internal/navlist"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print the popular suggestions shown before anything is typed",
	Args:  cobra.NoArgs,
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().Bool("json", false, "output the suggestion bundle as JSON")
	addBackendFlags(suggestCmd)

	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	backend, err := newBackend(cmd, cfg)
	if err != nil {
		return serr.Wrap(err, "creating backend")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.SearchBox.Timeout)
	defer cancel()
	s, err := backend.Suggestions(ctx, cfg.SearchBox.CitySlug)
	if err != nil {
		return serr.Wrap(err, "fetching suggestions")
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	printItems(cmd.OutOrStdout(), navlist.Build(navlist.Input{Mode: navlist.ModeSuggestions, Suggestions: s}))
	return nil
}
