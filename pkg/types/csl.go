// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CSLItem is a bibliographic record in CSL-JSON form. Both the NCBI
// Literature Citation Exporter and doi.org content negotiation return this
// shape directly; Crossref works are mapped into it by the registry client.
// Field names follow the CSL-JSON schema so output is consumable by Pandoc
// and reference managers.
type CSLItem struct {
	ID             string    `json:"id,omitempty" yaml:"id,omitempty"`
	Type           string    `json:"type,omitempty" yaml:"type,omitempty"`
	Subtype        string    `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Title          string    `json:"title,omitempty" yaml:"title,omitempty"`
	Author         []CSLName `json:"author,omitempty" yaml:"author,omitempty"`
	ContainerTitle string    `json:"container-title,omitempty" yaml:"container-title,omitempty"`
	Volume         string    `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue          string    `json:"issue,omitempty" yaml:"issue,omitempty"`
	Page           string    `json:"page,omitempty" yaml:"page,omitempty"`
	Issued         *CSLDate  `json:"issued,omitempty" yaml:"issued,omitempty"`
	DOI            string    `json:"DOI,omitempty" yaml:"DOI,omitempty"`
	PMID           string    `json:"PMID,omitempty" yaml:"PMID,omitempty"`
	PMCID          string    `json:"PMCID,omitempty" yaml:"PMCID,omitempty"`
	URL            string    `json:"URL,omitempty" yaml:"URL,omitempty"`

	// Score is the relevance score attached by a bibliographic search.
	// Zero for records fetched by identifier.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// Year returns the publication year, or 0 when no issued date is present.
func (c CSLItem) Year() int {
	if c.Issued == nil || len(c.Issued.DateParts) == 0 || len(c.Issued.DateParts[0]) == 0 {
		return 0
	}
	return c.Issued.DateParts[0][0]
}

// CSLName is a person's name in CSL format. Names that cannot be split into
// family/given parts use the literal field.
type CSLName struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL date-parts form: [[year, month, day]], with
// month and day optional.
type CSLDate struct {
	DateParts [][]int `json:"date-parts" yaml:"date-parts"`
}
