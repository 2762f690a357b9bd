// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubparse CLI, which turns a
// pasted citation list into a verified, formatted publication page.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sfb1451/pubparse/internal/secrets"
	"github.com/sfb1451/pubparse/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pubparse CLI.
var rootCmd = &cobra.Command{
	Use:   "pubparse",
	Short: "Resolve pasted citation lists into a publication page",
	Long: `pubparse resolves free-text bibliographic citations (copied from e-mail or
documents) into verified publication metadata and renders them as an HTML
bibliography with in-group authors highlighted.

Citations are matched to PMIDs, DOIs and PMCIDs where those are present,
looked up in the NCBI Citation Exporter, doi.org and Crossref, and fall
back to a fuzzy Crossref search otherwise. Responses are cached so
repeated runs cost no network traffic.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubparse.yaml or ~/.config/pubparse/config.yaml)")
	rootCmd.PersistentFlags().String("email", "", "contact e-mail sent to the registries")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubparse")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubparse"))
		}
	}

	viper.SetEnvPrefix("PUBPARSE")
	viper.AutomaticEnv()

	viper.SetDefault("email", "")
	viper.SetDefault("user_agent", "")
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("ncbi_rate_limit", 3.0)
	viper.SetDefault("cache_path", "query_cache.db")
	viper.SetDefault("search_rows", 3)
	viper.SetDefault("close_threshold", 0.75)
	viper.SetDefault("almost_threshold", 0.90)
	viper.SetDefault("title", "Publications")
	viper.SetDefault("author_file", "sfb_authors.txt")
	viper.SetDefault("scrape.output", "sfb_authors.txt")
	viper.SetDefault("scrape.urls", []string{
		"https://www.crc1451.uni-koeln.de/principal-investigators/",
		"https://www.crc1451.uni-koeln.de/clinician-scientists/",
		"https://www.crc1451.uni-koeln.de/post-docs/",
		"https://www.crc1451.uni-koeln.de/phd-students/",
		"https://www.crc1451.uni-koeln.de/management-committee/",
	})

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// registryConfig assembles the registry settings from flags, config and
// the secrets directory, in that order of precedence.
func registryConfig() types.RegistryConfig {
	cfg := types.RegistryConfig{
		Email:         viper.GetString("email"),
		UserAgent:     viper.GetString("user_agent"),
		Timeout:       viper.GetDuration("timeout"),
		NCBIRateLimit: viper.GetFloat64("ncbi_rate_limit"),
		CachePath:     viper.GetString("cache_path"),
	}
	if flagEmail, _ := rootCmd.PersistentFlags().GetString("email"); flagEmail != "" {
		cfg.Email = flagEmail
	}

	if cfg.Email == "" || cfg.UserAgent == "" {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		if cfg.Email == "" {
			cfg.Email = s.Email
		}
		if cfg.UserAgent == "" {
			cfg.UserAgent = s.UserAgent
		}
	}
	if cfg.UserAgent == "" && cfg.Email != "" {
		cfg.UserAgent = fmt.Sprintf("pubparse/%s (mailto:%s)", version, cfg.Email)
	}
	return cfg
}

func resolveConfig() types.ResolveConfig {
	return types.ResolveConfig{
		SearchRows:      viper.GetInt("search_rows"),
		CloseThreshold:  viper.GetFloat64("close_threshold"),
		AlmostThreshold: viper.GetFloat64("almost_threshold"),
	}
}

func renderConfig() types.RenderConfig {
	return types.RenderConfig{
		Title:      viper.GetString("title"),
		AuthorFile: viper.GetString("author_file"),
	}
}

func scrapeConfig() types.ScrapeConfig {
	return types.ScrapeConfig{
		URLs:       viper.GetStringSlice("scrape.urls"),
		OutputPath: viper.GetString("scrape.output"),
		Timeout:    viper.GetDuration("timeout"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
