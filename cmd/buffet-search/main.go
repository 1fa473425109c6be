// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the buffet-search CLI: headless
// queries against the search service, an interactive terminal search box,
// and a local fixture service for development.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/buffet-search/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// envReplacer maps nested config keys to environment variable names.
var envReplacer = strings.NewReplacer(".", "_")

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets secrets.Store

// secretDefault returns fallback if set, otherwise the loaded secret for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets.Get(key)
}

// rootCmd is the base command for the buffet-search CLI.
var rootCmd = &cobra.Command{
	Use:   "buffet-search",
	Short: "Incremental search for the buffet directory",
	Long: `buffet-search drives the directory's search box outside the browser. It
debounces input, caches responses, discards out-of-order replies, and builds the
keyboard-navigable dropdown exactly as the site does.

Use "search" and "suggest" for one-shot queries, "interactive" for a terminal
search box, and "fixture" to serve a local stand-in for the search service.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetLogLevel(viper.GetString(keyLogLevel))

		s, err := secrets.Load(viper.GetString(keySecretsDir))
		if err != nil {
			return serr.Wrap(err, "loading secrets")
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", "keys", strings.Join(s.Names(), ","))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./buffet-search.yaml or ~/.config/buffet-search/buffet-search.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("secrets-dir", "", "directory of secret files (default .secrets/)")
	pf.String("base-url", "", "search service root URL")
	pf.String("city", "", "scope searches to a city slug")

	_ = viper.BindPFlag(keyLogLevel, pf.Lookup("log-level"))
	_ = viper.BindPFlag(keySecretsDir, pf.Lookup("secrets-dir"))
	_ = viper.BindPFlag(keyBaseURL, pf.Lookup("base-url"))
	_ = viper.BindPFlag(keyCitySlug, pf.Lookup("city"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("buffet-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "buffet-search"))
		}
	}

	viper.SetEnvPrefix("BUFFET_SEARCH")
	viper.SetEnvKeyReplacer(envReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Info("using config file", "path", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
