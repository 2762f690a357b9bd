// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sfb1451/pubparse/internal/input"
	"github.com/sfb1451/pubparse/internal/registry"
	"github.com/sfb1451/pubparse/internal/render"
	"github.com/sfb1451/pubparse/internal/resolve"
)

var buildCmd = &cobra.Command{
	Use:   "build <input.txt>",
	Short: "Resolve a citation list and render the publication page",
	Long: `Build reads a blank-line-delimited citation list (with optional "* project"
headings), resolves each entry against the bibliographic registries, and
writes the HTML publication page. Entries that cannot be resolved keep
their place in the output, rendered from the raw citation text.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "publications.html", "output HTML file")
	buildCmd.Flags().String("csl", "", "also write resolved records as CSL-YAML to this file")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	sections, err := input.Read(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	client, err := registry.NewClient(registryConfig(), registry.WithLogWriter(os.Stderr))
	if err != nil {
		return err
	}
	defer client.Close()

	resolver := resolve.New(client, resolveConfig(), os.Stderr)
	resolved, err := resolver.ResolveAll(cmd.Context(), sections)
	if err != nil {
		return err
	}

	renderCfg := renderConfig()
	groupNames, err := render.LoadGroupNames(renderCfg.AuthorFile)
	if err != nil {
		return err
	}

	page, err := render.HTML(resolved, render.Options{
		Title:      renderCfg.Title,
		GroupNames: groupNames,
	})
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("output")
	if err := os.WriteFile(outPath, []byte(page), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	items := render.CollectItems(resolved)
	if cslPath, _ := cmd.Flags().GetString("csl"); cslPath != "" {
		out, err := os.Create(cslPath)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := render.FormatCSLYAML(items, out); err != nil {
			return fmt.Errorf("writing %s: %w", cslPath, err)
		}
	}

	total := 0
	for _, section := range resolved {
		total += len(section.Entries)
	}
	fmt.Fprintf(os.Stdout, "Resolved %d of %d entries; wrote %s\n", len(items), total, outPath)
	return nil
}
