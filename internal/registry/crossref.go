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

// Crossref API JSON structures. Crossref wraps works in a message envelope
// and returns titles as arrays; crossrefToCSL flattens them into the
// shared CSL shape.
type crossrefEnvelope struct {
	Message json.RawMessage `json:"message"`
}

type crossrefWorkList struct {
	Items []crossrefWork `json:"items"`
}

type crossrefWork struct {
	DOI            string          `json:"DOI"`
	Type           string          `json:"type"`
	Subtype        string          `json:"subtype"`
	Title          []string        `json:"title"`
	ContainerTitle []string        `json:"container-title"`
	Author         []crossrefName  `json:"author"`
	Issued         crossrefDate    `json:"issued"`
	Volume         string          `json:"volume"`
	Issue          string          `json:"issue"`
	Page           string          `json:"page"`
	URL            string          `json:"URL"`
	Score          float64         `json:"score"`
}

type crossrefName struct {
	Family string `json:"family"`
	Given  string `json:"given"`
	Name   string `json:"name"` // organizations
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

// FetchCrossrefWork looks up a single work by DOI in the Crossref works
// API. A 404 means Crossref does not index the DOI (a business-level
// miss); both misses and transport failures yield a nil record.
func (c *Client) FetchCrossrefWork(ctx context.Context, doi string) (*types.CSLItem, error) {
	reqURL := c.crossrefBase + "/" + url.PathEscape(doi)
	if c.cfg.Email != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.cfg.Email)
	}
	req, err := c.newRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	resp, err := httputil.DoWithRetry(ctx, c.web, req, 0)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logf("crossref: request for %s failed: %v\n", doi, err)
		return nil, nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.logf("crossref: no work for DOI %s\n", doi)
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		c.logf("crossref: HTTP %d for DOI %s\n", resp.StatusCode, doi)
		return nil, nil
	}

	var envelope crossrefEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.logf("crossref: unparseable response for %s: %v\n", doi, err)
		return nil, nil
	}
	var work crossrefWork
	if err := json.Unmarshal(envelope.Message, &work); err != nil {
		c.logf("crossref: unparseable work for %s: %v\n", doi, err)
		return nil, nil
	}

	item := crossrefToCSL(work)
	return &item, nil
}

// SearchBibliographic runs a fuzzy full-text query against the Crossref
// works API and returns candidates in Crossref's relevance order. The
// order is meaningful: the first item is the best match, and the attached
// scores drive disambiguation. An empty or absent result list returns an
// empty slice.
func (c *Client) SearchBibliographic(ctx context.Context, freeText string, rows int) ([]types.CSLItem, error) {
	if rows <= 0 {
		rows = 3
	}
	params := url.Values{
		"query.bibliographic": {freeText},
		"rows":                {fmt.Sprintf("%d", rows)},
	}
	if c.cfg.Email != "" {
		params.Set("mailto", c.cfg.Email)
	}
	req, err := c.newRequest(ctx, c.crossrefBase+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	resp, err := httputil.DoWithRetry(ctx, c.web, req, 0)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logf("crossref: bibliographic search failed: %v\n", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logf("crossref: bibliographic search HTTP %d\n", resp.StatusCode)
		return nil, nil
	}

	var envelope crossrefEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.logf("crossref: unparseable search response: %v\n", err)
		return nil, nil
	}
	var list crossrefWorkList
	if err := json.Unmarshal(envelope.Message, &list); err != nil {
		c.logf("crossref: unparseable search items: %v\n", err)
		return nil, nil
	}

	items := make([]types.CSLItem, len(list.Items))
	for i, work := range list.Items {
		items[i] = crossrefToCSL(work)
	}
	return items, nil
}

func crossrefToCSL(w crossrefWork) types.CSLItem {
	item := types.CSLItem{
		ID:      w.DOI,
		Type:    w.Type,
		Subtype: w.Subtype,
		DOI:     w.DOI,
		Volume:  w.Volume,
		Issue:   w.Issue,
		Page:    w.Page,
		URL:     w.URL,
		Score:   w.Score,
	}
	if len(w.Title) > 0 {
		item.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		item.ContainerTitle = w.ContainerTitle[0]
	}
	for _, a := range w.Author {
		name := types.CSLName{Family: a.Family, Given: a.Given}
		if a.Family == "" && a.Name != "" {
			name.Literal = a.Name
		}
		item.Author = append(item.Author, name)
	}
	if len(w.Issued.DateParts) > 0 {
		item.Issued = &types.CSLDate{DateParts: w.Issued.DateParts}
	}
	return item
}
