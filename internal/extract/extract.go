// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds scholarly identifiers (PMID, DOI, PMCID) in
// citation text and publisher URLs.
package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// Identifier patterns for citation text. Identifiers are expected to be
// preceded by "PMID:", "DOI:", "doi.org/" or "PMCID:", with the space
// after the colon optional. The DOI suffix may contain any non-whitespace
// characters but must not end on trailing citation punctuation (period,
// comma, semicolon); the exclusion is part of the pattern so punctuation
// inside the suffix is untouched.
var (
	pmidPattern  = regexp.MustCompile(`PMID: ?(\d+)`)
	pmcidPattern = regexp.MustCompile(`PMCID: ?(PMC\d+)`)
	doiPattern   = regexp.MustCompile(`(?:(?i:doi): ?|doi\.org/)(10\.[\d.]+/\S*[^\s.,;])`)
)

// publisherPattern pairs a host suffix with the DOI pattern for that
// publisher's URL scheme. DOI suffixes vary in how many path segments they
// span, so each pattern is applied only to URLs on the matching host.
type publisherPattern struct {
	host string
	re   *regexp.Regexp
}

var publisherDOIPatterns = []publisherPattern{
	// Preprint servers embed a version suffix (v1, v2) after the DOI.
	{"biorxiv.org", regexp.MustCompile(`/content/(10\.\d+/[^/?#]+?)(?:v\d+)?(?:\.full)?(?:[?#]|$)`)},
	{"medrxiv.org", regexp.MustCompile(`/content/(10\.\d+/[^/?#]+?)(?:v\d+)?(?:\.full)?(?:[?#]|$)`)},
	// Springer/Nature DOIs occupy a single path segment.
	{"link.springer.com", regexp.MustCompile(`/(?:article|chapter)/(10\.\d+/[^/?#]+)`)},
	{"nature.com", regexp.MustCompile(`/articles/([^/?#]+)`)},
	// Wiley DOI suffixes may themselves contain slashes.
	{"onlinelibrary.wiley.com", regexp.MustCompile(`/doi/(?:abs/|full/|epdf/|pdf/)?(10\.\d+/[^?#]+)`)},
	{"frontiersin.org", regexp.MustCompile(`/articles/(10\.\d+/[^/?#]+)`)},
	{"journals.plos.org", regexp.MustCompile(`/article\?id=(10\.\d+/[^&#]+)`)},
}

var (
	pubmedURLPattern = regexp.MustCompile(`pubmed\.ncbi\.nlm\.nih\.gov/(\d+)`)
	pmcURLPattern    = regexp.MustCompile(`ncbi\.nlm\.nih\.gov/pmc/articles/(PMC\d+)`)
)

// nature.com article slugs are DOI suffixes under the 10.1038 prefix.
const naturePrefix = "10.1038/"

// IdentifierSet maps identifier kinds to values extracted from one entry.
// An empty string means the kind was not found; extraction never fails.
type IdentifierSet struct {
	PMID  string
	DOI   string
	PMCID string
}

// Empty reports whether no identifier of any kind was found.
func (s IdentifierSet) Empty() bool {
	return s.PMID == "" && s.DOI == "" && s.PMCID == ""
}

// Extract searches citation text for each identifier kind, falling back to
// the associated URL only for kinds the text did not yield. Either argument
// may be empty.
func Extract(citation, rawURL string) IdentifierSet {
	set := IdentifierSet{
		PMID:  firstGroup(pmidPattern, citation),
		PMCID: firstGroup(pmcidPattern, citation),
		DOI:   firstGroup(doiPattern, citation),
	}

	if rawURL == "" {
		return set
	}
	if set.PMID == "" {
		set.PMID = firstGroup(pubmedURLPattern, rawURL)
	}
	if set.PMCID == "" {
		set.PMCID = firstGroup(pmcURLPattern, rawURL)
	}
	if set.DOI == "" {
		set.DOI = doiFromURL(rawURL)
	}
	return set
}

// doiFromURL applies publisher-specific patterns, each gated on the URL
// host, and returns the first DOI found.
func doiFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	for _, p := range publisherDOIPatterns {
		if host != p.host && !strings.HasSuffix(host, "."+p.host) {
			continue
		}
		m := p.re.FindStringSubmatch(rawURL)
		if m == nil {
			continue
		}
		if p.host == "nature.com" {
			return naturePrefix + m[1]
		}
		return m[1]
	}
	return ""
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
