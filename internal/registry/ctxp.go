// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sfb1451/pubparse/internal/httputil"
	"github.com/sfb1451/pubparse/pkg/types"
)

// FetchByPubmedID queries the NCBI Literature Citation Exporter for the
// CSL record of a PMID (db = DatabasePubmed) or PMCID (db = DatabasePMC).
// A non-success status yields a nil record, not an error.
func (c *Client) FetchByPubmedID(ctx context.Context, id string, db Database) (*types.CSLItem, error) {
	params := url.Values{
		"format":      {"csl"},
		"contenttype": {"json"},
		"id":          {id},
	}
	req, err := c.newRequest(ctx, fmt.Sprintf("%s/%s/?%s", c.ctxpBase, db, params.Encode()))
	if err != nil {
		return nil, err
	}

	resp, err := httputil.DoWithRetry(ctx, c.ncbi, req, 0)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logf("citation exporter: request for %s %s failed: %v\n", db, id, err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logf("citation exporter: HTTP %d for %s %s\n", resp.StatusCode, db, id)
		return nil, nil
	}

	var item types.CSLItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		c.logf("citation exporter: unparseable response for %s %s: %v\n", db, id, err)
		return nil, nil
	}
	return &item, nil
}
