// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the fragmapper CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/fragmapper/internal/secrets"
	"github.com/meshintel/fragmapper/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the fragmapper CLI.
var rootCmd = &cobra.Command{
	Use:   "fragmapper",
	Short: "Resolve noisy fragrance listings to canonical catalog pages",
	Long: `fragmapper maps messy, free-text fragrance descriptions (brand, name,
flanker, concentration, retailer noise) to exactly one canonical catalog
page on Parfumo or Fragrantica, or reports AMBIGUOUS / NOT_FOUND when the
evidence does not support a single confident match.

Lexicons, synonym tables, and scoring thresholds are rules-as-data in a
YAML file; edit them without touching code.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./fragmapper.yaml or ~/.config/fragmapper/config.yaml)")
	rootCmd.PersistentFlags().String("rules", "", "rules file overriding the configured path")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("fragmapper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "fragmapper"))
		}
	}

	viper.SetEnvPrefix("FRAGMAPPER")
	viper.AutomaticEnv()

	viper.SetDefault("catalog.timeout", "20s")
	viper.SetDefault("catalog.user_agent", "fragmapper/"+version)
	viper.SetDefault("catalog.max_results", 10)
	viper.SetDefault("catalog.inter_query_delay", "500ms")
	viper.SetDefault("rules.hot_reload", true)
	viper.SetDefault("history.max_list", 20)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// resolverConfig assembles the resolver configuration from viper
// settings, CLI flags, and loaded secrets.
func resolverConfig() types.ResolverConfig {
	cfg := types.ResolverConfig{}
	cfg.Catalog.Timeout = viper.GetDuration("catalog.timeout")
	cfg.Catalog.UserAgent = viper.GetString("catalog.user_agent")
	cfg.Catalog.MaxResults = viper.GetInt("catalog.max_results")
	cfg.Catalog.InterQueryDelay = viper.GetDuration("catalog.inter_query_delay")
	cfg.Catalog.ParfumoAPIKey = secretDefault("parfumo-api-key", viper.GetString("catalog.parfumo_api_key"))
	cfg.Catalog.FragranticaAPIKey = secretDefault("fragrantica-api-key", viper.GetString("catalog.fragrantica_api_key"))

	cfg.Rules.Path = viper.GetString("rules.path")
	if flagRules, _ := rootCmd.PersistentFlags().GetString("rules"); flagRules != "" {
		cfg.Rules.Path = flagRules
	}
	cfg.Rules.HotReload = viper.GetBool("rules.hot_reload")

	cfg.History.Dir = viper.GetString("history.dir")
	cfg.History.MaxList = viper.GetInt("history.max_list")
	return cfg
}

// secretDefault prefers the explicit config value, then the secret file.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
