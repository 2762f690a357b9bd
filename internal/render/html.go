// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render produces the publication page from resolved entries.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/sfb1451/pubparse/internal/resolve"
	"github.com/sfb1451/pubparse/pkg/types"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate = template.Must(template.New("bibliography").Parse(pageTemplate))

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 56em; margin: 2em auto; padding: 0 1em; }
h2 { border-bottom: 1px solid #ccc; padding-bottom: 0.2em; }
ul.publications li { margin-bottom: 0.8em; }
li.unresolved { color: #888; }
span.comment { color: #555; font-style: italic; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- range .Sections}}
{{- if .Name}}
<h2>{{.Name}}</h2>
{{- end}}
<ul class="publications">
{{- range .Items}}
<li{{if not .Resolved}} class="unresolved"{{end}}>{{.Citation}}</li>
{{- end}}
</ul>
{{- end}}
</body>
</html>
`

// Options configures HTML generation.
type Options struct {
	// Title is the page heading.
	Title string

	// GroupNames are the in-group family names to highlight.
	GroupNames []string
}

type pageData struct {
	Title    string
	Sections []sectionData
}

type sectionData struct {
	Name  string
	Items []itemData
}

type itemData struct {
	Resolved bool
	Citation template.HTML
}

// HTML renders the resolved sections into a self-contained bibliography
// page. Unresolved entries are rendered from their raw citation text and
// marked with an "unresolved" class so gaps stay visible.
func HTML(sections []resolve.ResolvedSection, opts Options) (string, error) {
	if opts.Title == "" {
		opts.Title = "Publications"
	}
	group := make(map[string]bool, len(opts.GroupNames))
	for _, name := range opts.GroupNames {
		group[strings.ToLower(strings.TrimSpace(name))] = true
	}

	data := pageData{Title: opts.Title}
	for _, section := range sections {
		sd := sectionData{Name: section.Name}
		for _, resolved := range section.Entries {
			sd.Items = append(sd.Items, itemData{
				Resolved: resolved.Item != nil,
				Citation: formatEntry(resolved, group),
			})
		}
		data.Sections = append(data.Sections, sd)
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering bibliography: %w", err)
	}
	return buf.String(), nil
}

// formatEntry builds the citation markup for one entry. Resolved entries
// are formatted from CSL fields with in-group authors emphasized;
// unresolved entries fall back to the raw citation text.
func formatEntry(r resolve.Resolved, group map[string]bool) template.HTML {
	var b strings.Builder

	if r.Item == nil {
		b.WriteString(template.HTMLEscapeString(r.Entry.Citation))
	} else {
		writeCitation(&b, *r.Item, group)
	}
	if r.Entry.Comment != "" {
		fmt.Fprintf(&b, ` <span class="comment">%s</span>`, template.HTMLEscapeString(r.Entry.Comment))
	}
	return template.HTML(b.String())
}

func writeCitation(b *strings.Builder, item types.CSLItem, group map[string]bool) {
	for i, author := range item.Author {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatAuthor(author, group))
	}
	if len(item.Author) > 0 {
		b.WriteString(". ")
	}
	if item.Title != "" {
		fmt.Fprintf(b, "%s. ", template.HTMLEscapeString(strings.TrimSuffix(item.Title, ".")))
	}
	if item.ContainerTitle != "" {
		fmt.Fprintf(b, "<em>%s</em>", template.HTMLEscapeString(item.ContainerTitle))
	}
	if year := item.Year(); year > 0 {
		fmt.Fprintf(b, " (%d)", year)
	}
	if item.Volume != "" {
		fmt.Fprintf(b, " %s", template.HTMLEscapeString(item.Volume))
		if item.Issue != "" {
			fmt.Fprintf(b, "(%s)", template.HTMLEscapeString(item.Issue))
		}
	}
	if item.Page != "" {
		fmt.Fprintf(b, ":%s", template.HTMLEscapeString(item.Page))
	}
	b.WriteString(".")
	if item.DOI != "" {
		doi := template.HTMLEscapeString(item.DOI)
		fmt.Fprintf(b, ` <a href="https://doi.org/%s">doi:%s</a>`, doi, doi)
	}
}

// formatAuthor renders one CSL name as "Family Initials", wrapping
// in-group family names in <strong>.
func formatAuthor(name types.CSLName, group map[string]bool) string {
	display := name.Literal
	if display == "" {
		display = strings.TrimSpace(name.Family + " " + initials(name.Given))
	}
	escaped := template.HTMLEscapeString(display)
	if name.Family != "" && group[strings.ToLower(name.Family)] {
		return "<strong>" + escaped + "</strong>"
	}
	return escaped
}

// initials compresses a given name to its initials: "Maria J." becomes "MJ".
func initials(given string) string {
	var b strings.Builder
	for _, part := range strings.Fields(given) {
		part = strings.TrimSuffix(part, ".")
		for _, r := range part {
			b.WriteRune(r)
			break
		}
	}
	return b.String()
}

// LoadGroupNames reads the in-group family names from a plain-text file,
// one name per line, skipping blanks and "#" comments. A missing file is
// not an error: highlighting is simply disabled.
func LoadGroupNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading author file: %w", err)
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, nil
}
