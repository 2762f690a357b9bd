// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sfb1451/pubparse/internal/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape group-member names from the consortium people pages",
	Long: `Scrape fetches the configured people pages, collects member names, and
writes a sorted list of family names. The bibliography renderer uses that
list to highlight in-group authors. The output is meant to be hand-edited;
suffix handling is deliberately rough.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringP("output", "o", "", "output file (default: scrape.output from config)")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg := scrapeConfig()
	if len(cfg.URLs) == 0 {
		return fmt.Errorf("no scrape URLs configured")
	}

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		outPath = cfg.OutputPath
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client := &http.Client{Timeout: cfg.Timeout}
	people, err := scrape.Names(ctx, client, cfg.URLs, os.Stderr)
	if err != nil {
		return err
	}

	lastNames := scrape.LastNames(people)
	content := strings.Join(lastNames, "\n") + "\n"
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(os.Stdout, "Found %d people, wrote %d last names to %s\n", len(people), len(lastNames), outPath)
	return nil
}
