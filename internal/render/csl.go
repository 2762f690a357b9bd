// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/sfb1451/pubparse/internal/resolve"
	"github.com/sfb1451/pubparse/pkg/types"
)

// CollectItems flattens the resolved sections into the list of records
// that actually resolved, input order preserved.
func CollectItems(sections []resolve.ResolvedSection) []types.CSLItem {
	var items []types.CSLItem
	for _, section := range sections {
		for _, resolved := range section.Entries {
			if resolved.Item != nil {
				items = append(items, *resolved.Item)
			}
		}
	}
	return items
}

// FormatCSLYAML writes the records as a CSL-YAML list to w, consumable by
// Pandoc and reference managers.
func FormatCSLYAML(items []types.CSLItem, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}
