// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape collects group-member names from the consortium's people
// pages. It is a one-shot utility: the resulting last-name list feeds the
// bibliography renderer's author highlighting and is expected to be
// hand-edited afterwards.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// projectCodePattern matches project-code headings (A01, B06, Z02, MGK)
// that share the h4 tag with people names on the consortium pages.
var projectCodePattern = regexp.MustCompile(`^([ABCZ]0\d|MGK)`)

// titlePattern strips academic titles from the front of a name.
var titlePattern = regexp.MustCompile(`^(?:Prof\. )?(?:Dr\. )+`)

// Names fetches each page and returns the people names found in h4
// headings, in page order. Pages that fail to load are reported on log
// and skipped; Names only fails when every page fails.
func Names(ctx context.Context, client *http.Client, urls []string, log io.Writer) ([]string, error) {
	var people []string
	failures := 0

	for _, pageURL := range urls {
		found, err := pageNames(ctx, client, pageURL)
		if err != nil {
			fmt.Fprintf(log, "scrape: %s: %v\n", pageURL, err)
			failures++
			continue
		}
		people = append(people, found...)
	}

	if failures == len(urls) && len(urls) > 0 {
		return nil, fmt.Errorf("all %d pages failed to load", failures)
	}
	return people, nil
}

func pageNames(ctx context.Context, client *http.Client, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	var names []string
	doc.Find("h4").Each(func(_ int, tag *goquery.Selection) {
		text := strings.TrimSpace(tag.Text())
		if text == "" || projectCodePattern.MatchString(text) {
			return
		}
		names = append(names, titlePattern.ReplaceAllString(text, ""))
	})
	return names, nil
}

// LastNames reduces full names to a sorted, deduplicated list of family
// names. Suffix handling does not have to be perfect; the list is
// hand-edited afterwards.
func LastNames(names []string) []string {
	seen := make(map[string]bool)
	for _, name := range names {
		fields := strings.Fields(name)
		if len(fields) == 0 {
			continue
		}
		seen[fields[len(fields)-1]] = true
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
