// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/sfb1451/pubparse/internal/registry"
	"github.com/sfb1451/pubparse/internal/resolve"
	"github.com/sfb1451/pubparse/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [citation text...]",
	Short: "Resolve a single reference and print its CSL record",
	Long: `Resolve looks up one reference: by an explicit identifier flag, or by
treating the arguments as citation text (identifiers are extracted from it,
with a fuzzy Crossref search as the fallback). The record is printed as
CSL-JSON, or CSL-YAML with --yaml.

With --convert, the given identifier is cross-walked to the other kinds
via the NCBI ID Converter instead.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("pmid", "", "resolve by PMID")
	resolveCmd.Flags().String("pmcid", "", "resolve by PMCID")
	resolveCmd.Flags().String("doi", "", "resolve by DOI")
	resolveCmd.Flags().String("url", "", "associated URL to extract identifiers from")
	resolveCmd.Flags().String("convert", "", "cross-walk an identifier (PMID, PMCID or DOI) and print the mapping")
	resolveCmd.Flags().Bool("yaml", false, "print CSL-YAML instead of CSL-JSON")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	client, err := registry.NewClient(registryConfig(), registry.WithLogWriter(os.Stderr))
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if id, _ := cmd.Flags().GetString("convert"); id != "" {
		mapping, err := client.ConvertID(ctx, id)
		if err != nil {
			return err
		}
		if mapping == nil {
			return fmt.Errorf("no mapping found for %q", id)
		}
		return printRecord(cmd, mapping)
	}

	item, err := lookup(ctx, cmd, client, args)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("no record found")
	}
	return printRecord(cmd, item)
}

func lookup(ctx context.Context, cmd *cobra.Command, client *registry.Client, args []string) (*types.CSLItem, error) {
	pmid, _ := cmd.Flags().GetString("pmid")
	pmcid, _ := cmd.Flags().GetString("pmcid")
	doi, _ := cmd.Flags().GetString("doi")
	rawURL, _ := cmd.Flags().GetString("url")

	switch {
	case pmid != "":
		return client.FetchByPubmedID(ctx, pmid, registry.DatabasePubmed)
	case pmcid != "":
		return client.FetchByPubmedID(ctx, pmcid, registry.DatabasePMC)
	case doi != "":
		return client.FetchByDOI(ctx, doi)
	case len(args) > 0:
		resolver := resolve.New(client, resolveConfig(), os.Stderr)
		return resolver.ResolveEntry(ctx, types.Entry{
			Citation: strings.Join(args, " "),
			URL:      rawURL,
		})
	default:
		return nil, fmt.Errorf("provide citation text or one of --pmid, --pmcid, --doi, --convert")
	}
}

func printRecord(cmd *cobra.Command, v any) error {
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(v)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
