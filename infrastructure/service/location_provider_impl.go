package service

import (
	"net/url"
	"strings"
	"sync"
)

// StaticLocationProvider holds the page location for a server-side board.
// The base never changes; the query is replaced after every mutation.
type StaticLocationProvider struct {
	base string

	mu    sync.RWMutex
	query string
}

// NewStaticLocationProvider parses rawURL into a base and an initial query.
// An unparsable URL is used verbatim as the base.
func NewStaticLocationProvider(rawURL string) *StaticLocationProvider {
	p := &StaticLocationProvider{base: rawURL}
	if u, err := url.Parse(rawURL); err == nil {
		p.query = u.RawQuery
		u.RawQuery = ""
		u.Fragment = ""
		p.base = u.String()
	}
	return p
}

// BaseURL returns the location without query or fragment
func (p *StaticLocationProvider) BaseURL() string {
	return p.base
}

// Query returns the current raw query, without the leading "?"
func (p *StaticLocationProvider) Query() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.query
}

// ReplaceQuery swaps the query written after a board mutation
func (p *StaticLocationProvider) ReplaceQuery(rawQuery string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = strings.TrimPrefix(rawQuery, "?")
}

