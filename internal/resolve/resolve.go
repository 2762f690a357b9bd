// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns citation entries into verified CSL records.
//
// For each entry the orchestrator extracts identifiers and follows the
// first applicable lookup path: PMID via the Citation Exporter, then
// PMCID, then DOI content negotiation, then a fuzzy bibliographic search
// narrowed by the disambiguation heuristic. Identifiers already present
// in the entry are preferred over ones that could be derived by
// cross-walking; that keeps the network budget down at the cost of a few
// PubMed-formatted results.
//
// Entries are resolved strictly one at a time. A failed lookup produces a
// nil record in the output, never an aborted batch, and the record keeps
// its entry's position so downstream grouping stays aligned.
package resolve

import (
	"context"
	"fmt"
	"io"

	"github.com/sfb1451/pubparse/internal/extract"
	"github.com/sfb1451/pubparse/internal/registry"
	"github.com/sfb1451/pubparse/pkg/types"
)

const defaultSearchRows = 3

// Resolver resolves citation entries against the registries.
type Resolver struct {
	client *registry.Client
	cfg    types.ResolveConfig
	log    io.Writer
}

// New builds a Resolver. Diagnostics go to log; pass io.Discard to
// silence them.
func New(client *registry.Client, cfg types.ResolveConfig, log io.Writer) *Resolver {
	if cfg.SearchRows <= 0 {
		cfg.SearchRows = defaultSearchRows
	}
	return &Resolver{client: client, cfg: cfg, log: log}
}

// Resolved pairs an input entry with its metadata record. Item is nil
// when resolution found nothing.
type Resolved struct {
	Entry types.Entry
	Item  *types.CSLItem
}

// ResolvedSection is a project section after resolution, entries in input
// order.
type ResolvedSection struct {
	Name    string
	Entries []Resolved
}

// ResolveEntry resolves one entry. The identifier kinds are mutually
// exclusive in priority, not combined: an entry carrying both a PMID and
// a DOI is resolved by the PMID alone. The returned error is non-nil only
// for context cancellation.
func (r *Resolver) ResolveEntry(ctx context.Context, entry types.Entry) (*types.CSLItem, error) {
	ids := extract.Extract(entry.Citation, entry.URL)

	switch {
	case ids.PMID != "":
		return r.client.FetchByPubmedID(ctx, ids.PMID, registry.DatabasePubmed)
	case ids.PMCID != "":
		return r.client.FetchByPubmedID(ctx, ids.PMCID, registry.DatabasePMC)
	case ids.DOI != "":
		return r.client.FetchByDOI(ctx, ids.DOI)
	default:
		candidates, err := r.client.SearchBibliographic(ctx, entry.Citation, r.cfg.SearchRows)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			fmt.Fprintf(r.log, "resolve: search found nothing for %q\n", truncate(entry.Citation, 60))
			return nil, nil
		}
		best, err := PickBest(candidates, DisambiguationOptions{
			Close:  r.cfg.CloseThreshold,
			Almost: r.cfg.AlmostThreshold,
		}, r.log)
		if err != nil {
			return nil, err
		}
		return &best, nil
	}
}

// ResolveAll resolves every entry in every section, order preserved. One
// entry's failure never affects the others; unresolved entries keep their
// position with a nil record.
func (r *Resolver) ResolveAll(ctx context.Context, sections []types.ProjectSection) ([]ResolvedSection, error) {
	out := make([]ResolvedSection, len(sections))
	for i, section := range sections {
		out[i].Name = section.Name
		out[i].Entries = make([]Resolved, len(section.Entries))
		for j, entry := range section.Entries {
			item, err := r.ResolveEntry(ctx, entry)
			if err != nil && ctx.Err() != nil {
				return nil, err
			}
			if item == nil {
				fmt.Fprintf(r.log, "resolve: unresolved: %q\n", truncate(entry.Citation, 60))
			}
			out[i].Entries[j] = Resolved{Entry: entry, Item: item}
		}
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
