// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubparse pipeline.
package types

// Entry is one bibliographic reference as pasted from e-mail: the citation
// text itself, plus an optional URL and an optional free-text comment that
// accompanied it. Entries are created by the input parser and consumed once
// by the resolver.
type Entry struct {
	// Citation is the raw citation text (always present).
	Citation string `json:"citation" yaml:"citation"`

	// URL is an optional link that accompanied the citation.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Comment is an optional free-text note that accompanied the citation.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// ProjectSection groups the entries listed under one "* project" heading in
// the input file, preserving their order of appearance.
type ProjectSection struct {
	// Name is the project heading, e.g. "B06". Empty for entries that
	// appear before the first heading.
	Name string `json:"name" yaml:"name"`

	Entries []Entry `json:"entries" yaml:"entries"`
}
