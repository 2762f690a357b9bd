// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "testing"

func TestExtractFromCitationText(t *testing.T) {
	tests := []struct {
		name     string
		citation string
		want     IdentifierSet
	}{
		{
			"pmid with space",
			"Smith J et al. Some title. J Neurosci 2021. PMID: 33099839",
			IdentifierSet{PMID: "33099839"},
		},
		{
			"pmid without space",
			"PMID:12345678",
			IdentifierSet{PMID: "12345678"},
		},
		{
			"pmid embedded mid-sentence",
			"see PMID: 99 for details",
			IdentifierSet{PMID: "99"},
		},
		{
			"pmcid",
			"... available as PMCID: PMC7654321.",
			IdentifierSet{PMCID: "PMC7654321"},
		},
		{
			"doi with marker",
			"Neuron. 2022. doi: 10.1016/j.neuron.2022.01.012",
			IdentifierSet{DOI: "10.1016/j.neuron.2022.01.012"},
		},
		{
			"doi uppercase marker",
			"DOI: 10.1000/xyz123",
			IdentifierSet{DOI: "10.1000/xyz123"},
		},
		{
			"doi via doi.org",
			"available at https://doi.org/10.1093/brain/awab123",
			IdentifierSet{DOI: "10.1093/brain/awab123"},
		},
		{
			"doi trailing period excluded",
			"doi: 10.1000/xyz123.",
			IdentifierSet{DOI: "10.1000/xyz123"},
		},
		{
			"doi trailing comma excluded",
			"doi: 10.1000/xyz123, accessed 2022",
			IdentifierSet{DOI: "10.1000/xyz123"},
		},
		{
			"doi trailing semicolon excluded",
			"doi: 10.1000/xyz123; and more",
			IdentifierSet{DOI: "10.1000/xyz123"},
		},
		{
			"doi with internal dots kept",
			"doi: 10.1101/2021.03.01.433341",
			IdentifierSet{DOI: "10.1101/2021.03.01.433341"},
		},
		{
			"pmid and doi both found",
			"Title. doi: 10.1000/abc PMID: 111",
			IdentifierSet{PMID: "111", DOI: "10.1000/abc"},
		},
		{
			"nothing",
			"Smith J. A paper without identifiers. 2020.",
			IdentifierSet{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.citation, "")
			if got != tt.want {
				t.Errorf("Extract(%q, \"\") = %+v, want %+v", tt.citation, got, tt.want)
			}
		})
	}
}

func TestExtractFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want IdentifierSet
	}{
		{
			"biorxiv with version suffix",
			"https://www.biorxiv.org/content/10.1101/2021.03.01.433341v2",
			IdentifierSet{DOI: "10.1101/2021.03.01.433341"},
		},
		{
			"medrxiv full view",
			"https://www.medrxiv.org/content/10.1101/2022.01.10.22268977v1.full",
			IdentifierSet{DOI: "10.1101/2022.01.10.22268977"},
		},
		{
			"springer article",
			"https://link.springer.com/article/10.1007/s00429-021-02367-9",
			IdentifierSet{DOI: "10.1007/s00429-021-02367-9"},
		},
		{
			"nature slug gets prefix",
			"https://www.nature.com/articles/s41467-021-23456-7",
			IdentifierSet{DOI: "10.1038/s41467-021-23456-7"},
		},
		{
			"wiley multi-segment suffix",
			"https://onlinelibrary.wiley.com/doi/full/10.1002/glia.24111",
			IdentifierSet{DOI: "10.1002/glia.24111"},
		},
		{
			"frontiers",
			"https://www.frontiersin.org/articles/10.3389/fncel.2021.123456/full",
			IdentifierSet{DOI: "10.3389/fncel.2021.123456"},
		},
		{
			"plos query parameter",
			"https://journals.plos.org/plosbiology/article?id=10.1371/journal.pbio.3001234",
			IdentifierSet{DOI: "10.1371/journal.pbio.3001234"},
		},
		{
			"pubmed URL yields pmid",
			"https://pubmed.ncbi.nlm.nih.gov/33099839/",
			IdentifierSet{PMID: "33099839"},
		},
		{
			"pmc URL yields pmcid",
			"https://www.ncbi.nlm.nih.gov/pmc/articles/PMC7654321/",
			IdentifierSet{PMCID: "PMC7654321"},
		},
		{
			"wiley pattern not applied to springer host",
			"https://link.springer.com/doi/full/10.1002/glia.24111",
			IdentifierSet{},
		},
		{
			"unknown publisher",
			"https://example.com/articles/10.9999/whatever",
			IdentifierSet{},
		},
		{
			"unparseable url",
			"http://%zz",
			IdentifierSet{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract("", tt.url)
			if got != tt.want {
				t.Errorf("Extract(\"\", %q) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

// Citation text wins over the URL for the same kind; the URL only fills
// kinds the text left empty.
func TestExtractTextTakesPrecedence(t *testing.T) {
	citation := "Some title. doi: 10.1000/from-text"
	url := "https://www.biorxiv.org/content/10.1101/2021.03.01.433341v1"

	got := Extract(citation, url)
	want := IdentifierSet{DOI: "10.1000/from-text"}
	if got != want {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}

	got = Extract("PMID: 42", url)
	want = IdentifierSet{PMID: "42", DOI: "10.1101/2021.03.01.433341"}
	if got != want {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}
}

func TestIdentifierSetEmpty(t *testing.T) {
	if !(IdentifierSet{}).Empty() {
		t.Error("zero set should be empty")
	}
	if (IdentifierSet{PMID: "1"}).Empty() {
		t.Error("set with PMID should not be empty")
	}
}
