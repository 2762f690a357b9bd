// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"encoding/json"

	"github.com/sfb1451/pubparse/pkg/types"
)

// FetchByDOI resolves a DOI through doi.org content negotiation: the
// request asks for CSL JSON and the default client follows the redirect
// to whichever registration agency hosts the metadata. A non-success
// status yields a nil record, not an error.
func (c *Client) FetchByDOI(ctx context.Context, doi string) (*types.CSLItem, error) {
	req, err := c.newRequest(ctx, c.doiBase+"/"+doi)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", cslContentType)

	resp, err := c.web.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logf("doi.org: request for %s failed: %v\n", doi, err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logf("doi.org: HTTP %d for %s\n", resp.StatusCode, doi)
		return nil, nil
	}

	var item types.CSLItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		c.logf("doi.org: unparseable response for %s: %v\n", doi, err)
		return nil, nil
	}
	if item.DOI == "" {
		item.DOI = doi
	}
	return &item, nil
}
