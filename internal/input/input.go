// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package input parses the line-oriented publication list pasted from
// e-mail into project sections of citation entries.
//
// The format: lines starting with "*" open a project section; blank lines
// separate entries; an entry is one to three consecutive lines (citation,
// optionally a URL line starting with "http", optionally a comment line in
// either order).
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sfb1451/pubparse/pkg/types"
)

// FormatError reports a violation of the input format at a specific line.
// It aborts parsing: a malformed entry means the pasted text was mangled
// and silently guessing would misalign the whole batch.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Read parses the publication list from r. Entries keep their order of
// appearance within each section.
func Read(r io.Reader) ([]types.ProjectSection, error) {
	var sections []types.ProjectSection
	var buf []string

	flush := func(line int) error {
		if len(buf) == 0 {
			return nil
		}
		entry, err := classify(buf, line)
		buf = nil
		if err != nil {
			return err
		}
		if len(sections) == 0 {
			sections = append(sections, types.ProjectSection{})
		}
		last := &sections[len(sections)-1]
		last.Entries = append(last.Entries, entry)
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "*"):
			if err := flush(n); err != nil {
				return nil, err
			}
			name := strings.TrimSpace(strings.TrimLeft(line, "* "))
			sections = append(sections, types.ProjectSection{Name: name})
		case line == "":
			if err := flush(n); err != nil {
				return nil, err
			}
		default:
			buf = append(buf, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if err := flush(n); err != nil {
		return nil, err
	}
	return sections, nil
}

// classify turns a buffered block of lines into an Entry. The first line is
// always the citation; a line starting with "http" is the URL and any other
// extra line is the comment.
func classify(buf []string, line int) (types.Entry, error) {
	switch len(buf) {
	case 1:
		return types.Entry{Citation: buf[0]}, nil
	case 2:
		if isURL(buf[1]) {
			return types.Entry{Citation: buf[0], URL: buf[1]}, nil
		}
		return types.Entry{Citation: buf[0], Comment: buf[1]}, nil
	case 3:
		switch {
		case isURL(buf[1]) && !isURL(buf[2]):
			return types.Entry{Citation: buf[0], URL: buf[1], Comment: buf[2]}, nil
		case isURL(buf[2]) && !isURL(buf[1]):
			return types.Entry{Citation: buf[0], URL: buf[2], Comment: buf[1]}, nil
		default:
			return types.Entry{}, &FormatError{Line: line, Reason: "found two URLs for a publication"}
		}
	default:
		return types.Entry{}, &FormatError{Line: line, Reason: "too many lines for a publication"}
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http")
}
