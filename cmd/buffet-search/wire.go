// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/pdiddy/buffet-search/internal/cache"
	"github.com/pdiddy/buffet-search/internal/fixture"
	"github.com/pdiddy/buffet-search/internal/searchapi"
	"github.com/pdiddy/buffet-search/internal/searchbox"
	"github.com/pdiddy/buffet-search/pkg/types"
)

// addBackendFlags registers flags shared by commands that query a backend.
func addBackendFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("offline", false, "answer from the fixture dataset in-process instead of the search service")
}

// newBackend returns the HTTP client, or the fixture dataset with --offline.
func newBackend(cmd *cobra.Command, cfg types.Config) (searchbox.Backend, error) {
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		data, err := fixture.Load(cfg.Fixture.DataFile)
		if err != nil {
			return nil, err
		}
		return data, nil
	}
	return searchapi.New(cfg.SearchBox), nil
}

// boxOptions assembles search box options with caches sized from cfg.
func boxOptions(cfg types.SearchBoxConfig, backend searchbox.Backend) (searchbox.Options, error) {
	clock := clockwork.NewRealClock()
	results, err := cache.New[types.ResultBundle](cfg.Results, clock)
	if err != nil {
		return searchbox.Options{}, err
	}
	suggestions, err := cache.New[types.SuggestionBundle](cfg.Suggestions, clock)
	if err != nil {
		return searchbox.Options{}, err
	}
	return searchbox.Options{
		Config:      cfg,
		Backend:     backend,
		Results:     results,
		Suggestions: suggestions,
		Clock:       clock,
	}, nil
}
