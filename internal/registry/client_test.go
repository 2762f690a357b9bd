// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfb1451/pubparse/pkg/types"
)

func testClient(t *testing.T, opts ...Option) (*Client, *bytes.Buffer) {
	t.Helper()
	var log bytes.Buffer
	opts = append(opts, WithLogWriter(&log))
	client, err := NewClient(types.RegistryConfig{
		Email:         "group@example.org",
		NCBIRateLimit: 1000, // no throttling delays in tests
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, &log
}

// --- Citation Exporter ---

func TestFetchByPubmedID(t *testing.T) {
	var gotPath, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, "csl", r.URL.Query().Get("format"))
		assert.Equal(t, "json", r.URL.Query().Get("contenttype"))
		assert.Equal(t, "33099839", r.URL.Query().Get("id"))
		json.NewEncoder(w).Encode(types.CSLItem{
			Title: "A paper about neurons",
			Type:  "article-journal",
			PMID:  "33099839",
		})
	}))
	defer ts.Close()

	client, _ := testClient(t, WithCtxpBase(ts.URL))
	item, err := client.FetchByPubmedID(context.Background(), "33099839", DatabasePubmed)
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, "A paper about neurons", item.Title)
	assert.Equal(t, "/pubmed/", gotPath)
	assert.NotEmpty(t, gotUA)
}

func TestFetchByPubmedIDSelectsDatabase(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(types.CSLItem{PMCID: "PMC7654321"})
	}))
	defer ts.Close()

	client, _ := testClient(t, WithCtxpBase(ts.URL))
	item, err := client.FetchByPubmedID(context.Background(), "PMC7654321", DatabasePMC)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "/pmc/", gotPath)
}

func TestFetchByPubmedIDSoftFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer ts.Close()

	client, log := testClient(t, WithCtxpBase(ts.URL))
	item, err := client.FetchByPubmedID(context.Background(), "0", DatabasePubmed)
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Contains(t, log.String(), "HTTP 404")
}

// --- ID Converter ---

func TestConvertID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PMC7654321", r.URL.Query().Get("ids"))
		assert.Equal(t, "pubparse", r.URL.Query().Get("tool"))
		assert.Equal(t, "group@example.org", r.URL.Query().Get("email"))
		w.Write([]byte(`{"records":[{"pmcid":"PMC7654321","pmid":"33099839","doi":"10.1000/abc"}]}`))
	}))
	defer ts.Close()

	client, _ := testClient(t, WithIDConvBase(ts.URL))
	mapping, err := client.ConvertID(context.Background(), "PMC7654321")
	require.NoError(t, err)
	require.NotNil(t, mapping)

	assert.Equal(t, "33099839", mapping.PMID)
	assert.Equal(t, "PMC7654321", mapping.PMCID)
	assert.Equal(t, "10.1000/abc", mapping.DOI)
}

// The converter can answer 200 yet report no match for the id; that
// business-level miss must come back absent, with a diagnostic.
func TestConvertIDBusinessLevelMiss(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"records":[{"pmid":"0","status":"error","errmsg":"invalid article id"}]}`))
	}))
	defer ts.Close()

	client, log := testClient(t, WithIDConvBase(ts.URL))
	mapping, err := client.ConvertID(context.Background(), "0")
	require.NoError(t, err)
	assert.Nil(t, mapping)
	assert.Contains(t, log.String(), "no match")
	assert.Contains(t, log.String(), "invalid article id")
}

// --- doi.org content negotiation ---

func TestFetchByDOIFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/10.1000/abc", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, cslContentType, r.Header.Get("Accept"))
		http.Redirect(w, r, "/metadata", http.StatusFound)
	})
	mux.HandleFunc("/metadata", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(types.CSLItem{Title: "Negotiated record"})
	})

	client, _ := testClient(t, WithDOIBase(ts.URL))
	item, err := client.FetchByDOI(context.Background(), "10.1000/abc")
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, "Negotiated record", item.Title)
	// The DOI is filled in when the negotiated record omits it.
	assert.Equal(t, "10.1000/abc", item.DOI)
}

func TestFetchByDOISoftFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unknown DOI", http.StatusNotFound)
	}))
	defer ts.Close()

	client, log := testClient(t, WithDOIBase(ts.URL))
	item, err := client.FetchByDOI(context.Background(), "10.9999/missing")
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Contains(t, log.String(), "HTTP 404")
}

// --- Crossref ---

func TestFetchCrossrefWork(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "group@example.org", r.URL.Query().Get("mailto"))
		w.Write([]byte(`{"message":{
			"DOI":"10.1000/abc",
			"type":"journal-article",
			"title":["A title"],
			"container-title":["A Journal"],
			"author":[{"family":"Smith","given":"Jane"},{"name":"The Consortium"}],
			"issued":{"date-parts":[[2021,6]]},
			"volume":"12","page":"100-110"
		}}`))
	}))
	defer ts.Close()

	client, _ := testClient(t, WithCrossrefBase(ts.URL))
	item, err := client.FetchCrossrefWork(context.Background(), "10.1000/abc")
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, "A title", item.Title)
	assert.Equal(t, "A Journal", item.ContainerTitle)
	assert.Equal(t, 2021, item.Year())
	require.Len(t, item.Author, 2)
	assert.Equal(t, "Smith", item.Author[0].Family)
	assert.Equal(t, "The Consortium", item.Author[1].Literal)
}

func TestSearchBibliographic(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Smith neurons cortex 2021", r.URL.Query().Get("query.bibliographic"))
		assert.Equal(t, "3", r.URL.Query().Get("rows"))
		assert.Equal(t, "group@example.org", r.URL.Query().Get("mailto"))
		w.Write([]byte(`{"message":{"items":[
			{"DOI":"10.1/a","type":"journal-article","title":["Best"],"score":100},
			{"DOI":"10.1/b","type":"posted-content","subtype":"preprint","title":["Second"],"score":90},
			{"DOI":"10.1/c","type":"journal-article","title":["Third"],"score":40}
		]}}`))
	}))
	defer ts.Close()

	client, _ := testClient(t, WithCrossrefBase(ts.URL))
	items, err := client.SearchBibliographic(context.Background(), "Smith neurons cortex 2021", 3)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Registry relevance order is preserved; scores and subtypes survive.
	assert.Equal(t, "Best", items[0].Title)
	assert.Equal(t, float64(100), items[0].Score)
	assert.Equal(t, "preprint", items[1].Subtype)
	assert.Equal(t, "10.1/c", items[2].DOI)
}

func TestSearchBibliographicEmptyResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"message":{"items":[]}}`))
	}))
	defer ts.Close()

	client, _ := testClient(t, WithCrossrefBase(ts.URL))
	items, err := client.SearchBibliographic(context.Background(), "gibberish", 3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

// --- response cache ---

func TestCacheAvoidsRepeatRequests(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(types.CSLItem{Title: "Cached once"})
	}))
	defer ts.Close()

	var log bytes.Buffer
	client, err := NewClient(types.RegistryConfig{
		Email:         "group@example.org",
		NCBIRateLimit: 1000,
		CachePath:     filepath.Join(t.TempDir(), "cache.db"),
	}, WithDOIBase(ts.URL), WithLogWriter(&log))
	require.NoError(t, err)
	defer client.Close()

	first, err := client.FetchByDOI(context.Background(), "10.1000/abc")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := client.FetchByDOI(context.Background(), "10.1000/abc")
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, first, second)
}

func TestCacheKeyIncludesAcceptHeader(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.put("http://x\napplication/json", 200, http.Header{}, []byte("json")))
	require.NoError(t, cache.put("http://x\ntext/html", 200, http.Header{}, []byte("html")))

	_, _, body, ok := cache.get("http://x\napplication/json")
	require.True(t, ok)
	assert.Equal(t, "json", string(body))

	_, _, body, ok = cache.get("http://x\ntext/html")
	require.True(t, ok)
	assert.Equal(t, "html", string(body))

	_, _, _, ok = cache.get("http://x\n")
	assert.False(t, ok)
}

func TestCachePersistsAcrossClients(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(types.CSLItem{Title: "Persistent"})
	}))

	cachePath := filepath.Join(t.TempDir(), "cache.db")
	cfg := types.RegistryConfig{Email: "group@example.org", NCBIRateLimit: 1000, CachePath: cachePath}

	client1, err := NewClient(cfg, WithDOIBase(ts.URL))
	require.NoError(t, err)
	item1, err := client1.FetchByDOI(context.Background(), "10.1000/abc")
	require.NoError(t, err)
	require.NotNil(t, item1)
	require.NoError(t, client1.Close())

	// Same input, new run, origin gone: the cache must answer.
	ts.Close()

	client2, err := NewClient(cfg, WithDOIBase(ts.URL))
	require.NoError(t, err)
	defer client2.Close()
	item2, err := client2.FetchByDOI(context.Background(), "10.1000/abc")
	require.NoError(t, err)
	require.NotNil(t, item2)

	assert.Equal(t, item1, item2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
