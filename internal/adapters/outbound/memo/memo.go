// Package memo caches assembled diagnostic reports. The pipeline is a
// pure function of (config, build, symptoms), so a report can be reused
// for as long as those inputs are byte-identical; the MCP server uses
// this to avoid re-running diagnostics on repeated tool calls.
package memo

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dronedoctor/dronedoctor/internal/domain/diagnose"
)

// Cache is a fixed-size LRU of diagnostic reports.
type Cache struct {
	lru *lru.Cache[string, *diagnose.Report]
}

// New creates a Cache holding up to size reports.
func New(size int) (*Cache, error) {
	inner, err := lru.New[string, *diagnose.Report](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: inner}, nil
}

// Key derives the cache key from the raw config text, the build's
// source record, and the active symptom set (order-insensitive).
func Key(configText, buildSource string, symptoms []string) string {
	sorted := append([]string(nil), symptoms...)
	sort.Strings(sorted)

	h := sha256.New()
	h.Write([]byte(configText))
	h.Write([]byte{0})
	h.Write([]byte(buildSource))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(sorted, ",")))
	return hex.EncodeToString(h.Sum(nil))
}

// Key derives the cache key for this cache. Method form of the package
// function so callers can hold the cache behind a small interface.
func (c *Cache) Key(configText, buildSource string, symptoms []string) string {
	return Key(configText, buildSource, symptoms)
}

// Get returns the cached report for a key, if any.
func (c *Cache) Get(key string) (*diagnose.Report, bool) {
	return c.lru.Get(key)
}

// Put stores a report under a key.
func (c *Cache) Put(key string, report *diagnose.Report) {
	c.lru.Add(key, report)
}

// Len returns the number of cached reports.
func (c *Cache) Len() int {
	return c.lru.Len()
}
