// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/time/rate"
)

// Cache stores successful GET responses in a SQLite database keyed by URL
// and Accept header. It is opaque to callers: the registry client reads
// through it and never inspects freshness (registry metadata for a fixed
// identifier does not change between runs).
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the response cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS responses (
		key        TEXT PRIMARY KEY,
		status     INTEGER NOT NULL,
		header     TEXT NOT NULL,
		body       BLOB NOT NULL,
		fetched_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) get(key string) (status int, header http.Header, body []byte, ok bool) {
	var headerJSON string
	row := c.db.QueryRow(`SELECT status, header, body FROM responses WHERE key = ?`, key)
	if err := row.Scan(&status, &headerJSON, &body); err != nil {
		return 0, nil, nil, false
	}
	header = http.Header{}
	if err := json.Unmarshal([]byte(headerJSON), &header); err != nil {
		return 0, nil, nil, false
	}
	return status, header, body, true
}

func (c *Cache) put(key string, status int, header http.Header, body []byte) error {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO responses (key, status, header, body, fetched_at) VALUES (?, ?, ?, ?, ?)`,
		key, status, string(headerJSON), body, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// cachingTransport serves GET requests from the cache and stores
// successful responses on the way back. Cache problems degrade to a plain
// network round trip, never to a request failure.
type cachingTransport struct {
	cache *Cache
	next  http.RoundTripper
}

func (t *cachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.next.RoundTrip(req)
	}

	key := req.URL.String() + "\n" + req.Header.Get("Accept")
	if status, header, body, ok := t.cache.get(key); ok {
		return &http.Response{
			StatusCode:    status,
			Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
			Proto:         "HTTP/1.1",
			ProtoMajor:    1,
			ProtoMinor:    1,
			Header:        header,
			Body:          io.NopCloser(bytes.NewReader(body)),
			ContentLength: int64(len(body)),
			Request:       req,
		}, nil
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, readErr
		}
		// A failed write just means the next run refetches.
		_ = t.cache.put(key, resp.StatusCode, resp.Header, body)
		resp.Body = io.NopCloser(bytes.NewReader(body))
		resp.ContentLength = int64(len(body))
	}
	return resp, nil
}

// throttledTransport delays each request through a shared rate limiter. It
// sits beneath the cache, so only real network traffic is throttled.
type throttledTransport struct {
	limiter *rate.Limiter
	next    http.RoundTripper
}

func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
