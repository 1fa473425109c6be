// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rohanthewiz/serr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/buffet-search/internal/navlist"
	"github.com/pdiddy/buffet-search/internal/query"
	"github.com/pdiddy/buffet-search/internal/searchbox"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Run one query through the search box and print the dropdown",
	Long: `Search types QUERY into a search box, waits for it to settle, and prints
the dropdown items in keyboard order: cities, neighborhoods, buffets, and the
"see all results" footer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 0, "maximum number of buffets to request (default 8)")
	searchCmd.Flags().Bool("json", false, "output the dropdown snapshot as JSON")
	searchCmd.Flags().Duration("wait", 0, "how long to wait for results (default timeout + debounce)")
	addBackendFlags(searchCmd)

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		cfg.SearchBox.ResultLimit = limit
	}

	q := strings.Join(args, " ")
	if !query.Searchable(q, cfg.SearchBox.MinQueryLength) {
		return serr.New(fmt.Sprintf("query %q is shorter than %d characters", query.Trim(q), cfg.SearchBox.MinQueryLength))
	}

	backend, err := newBackend(cmd, cfg)
	if err != nil {
		return serr.Wrap(err, "creating backend")
	}
	opts, err := boxOptions(cfg.SearchBox, backend)
	if err != nil {
		return serr.Wrap(err, "sizing caches")
	}
	changed := make(chan struct{}, 1)
	opts.OnChange = func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
	box, err := searchbox.New(opts)
	if err != nil {
		return serr.Wrap(err, "creating search box")
	}
	defer box.Close()

	wait, _ := cmd.Flags().GetDuration("wait")
	if wait <= 0 {
		wait = cfg.SearchBox.Timeout + cfg.SearchBox.Debounce
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), wait)
	defer cancel()

	box.Focus()
	box.Input(q)
	snap, err := waitSettled(ctx, box, changed)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	if snap.State == searchbox.EmptyResults {
		fmt.Fprintf(cmd.OutOrStdout(), "No buffets match %q.\n", query.Trim(q))
		return nil
	}
	printItems(cmd.OutOrStdout(), snap.Items)
	return nil
}

// waitSettled blocks until the box shows results or reports none.
func waitSettled(ctx context.Context, box *searchbox.Box, changed <-chan struct{}) (searchbox.Snapshot, error) {
	for {
		snap := box.Snapshot()
		switch snap.State {
		case searchbox.Populated, searchbox.EmptyResults:
			return snap, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return snap, serr.Wrap(ctx.Err(), "waiting for search results")
		}
	}
}

func printItems(w io.Writer, items []navlist.Item) {
	for i, it := range items {
		if it.Kind == navlist.KindFooter {
			fmt.Fprintf(w, "%2d  %s for %q  %s\n", i+1, it.Detail, it.DisplayValue, it.Href)
			continue
		}
		line := fmt.Sprintf("%2d  %-12s %s", i+1, it.Kind, it.DisplayValue)
		if it.Detail != "" {
			line += " (" + it.Detail + ")"
		}
		if it.Href != "" {
			line += "  " + it.Href
		}
		fmt.Fprintln(w, line)
	}
}
