// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/buffet-search/internal/tui"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Open a terminal search box",
	Long: `Interactive opens a search box in the terminal. Type to search; Up/Down
move the highlight, Enter opens the highlighted entry (or the full results
page), Escape closes the dropdown and a second Escape quits. Chosen
destinations are shown on the status line.`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	addBackendFlags(interactiveCmd)
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	backend, err := newBackend(cmd, cfg)
	if err != nil {
		return serr.Wrap(err, "creating backend")
	}
	opts, err := boxOptions(cfg.SearchBox, backend)
	if err != nil {
		return serr.Wrap(err, "sizing caches")
	}

	// Log lines would tear the screen.
	if !cmd.Flags().Changed("log-level") {
		logger.SetLogLevel("error")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return serr.Wrap(err, "opening terminal")
	}
	if err := screen.Init(); err != nil {
		return serr.Wrap(err, "initializing terminal")
	}
	defer screen.Fini()
	screen.EnableMouse()

	title := "Find a buffet"
	if cfg.SearchBox.CitySlug != "" {
		title += " in " + cfg.SearchBox.CitySlug
	}
	app, err := tui.New(screen, title, opts)
	if err != nil {
		return serr.Wrap(err, "creating search box")
	}
	app.Run(cmd.Context())
	return nil
}
