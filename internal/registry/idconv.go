// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// IDMapping is the result of cross-walking one scholarly identifier to
// the other kinds via the NCBI ID Converter.
type IDMapping struct {
	PMID  string `json:"pmid"`
	PMCID string `json:"pmcid"`
	DOI   string `json:"doi"`
}

type idconvResponse struct {
	Records []idconvRecord `json:"records"`
}

type idconvRecord struct {
	IDMapping
	Status string `json:"status"`
	ErrMsg string `json:"errmsg"`
}

// ConvertID cross-walks a PMID, PMCID or DOI to the other identifier
// kinds. The converter can succeed at the transport level yet report "no
// match" for the id (a per-record error status); that business-level miss
// is returned as a nil mapping with a diagnostic, same as a transport
// failure.
func (c *Client) ConvertID(ctx context.Context, id string) (*IDMapping, error) {
	params := url.Values{
		"ids":    {id},
		"format": {"json"},
		"tool":   {toolName},
	}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	req, err := c.newRequest(ctx, c.idconvBase+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	resp, err := c.ncbi.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logf("id converter: request for %q failed: %v\n", id, err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logf("id converter: HTTP %d for %q\n", resp.StatusCode, id)
		return nil, nil
	}

	var parsed idconvResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logf("id converter: unparseable response for %q: %v\n", id, err)
		return nil, nil
	}
	if len(parsed.Records) == 0 {
		c.logf("id converter: no records for %q\n", id)
		return nil, nil
	}

	rec := parsed.Records[0]
	if rec.Status == "error" {
		c.logf("id converter: no match for %q: %s\n", id, rec.ErrMsg)
		return nil, nil
	}
	mapping := rec.IDMapping
	return &mapping, nil
}
