package valueobject

import (
	"fmt"
	"net/url"
	"strings"
)

// ShareLinkParam is the query parameter carrying the ordered abbreviations
const ShareLinkParam = "timezones"

// ShareLink is an ordered list of zone abbreviations addressed at a base URL
type ShareLink struct {
	base          string
	abbreviations []string
}

// NewShareLink creates a link for abbreviations. base may be empty for a
// relative link; any query or fragment already on base is dropped.
func NewShareLink(base string, abbreviations []string) (*ShareLink, error) {
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid share link base %q: %w", base, err)
		}
		u.RawQuery = ""
		u.Fragment = ""
		base = u.String()
	}

	abbrs := make([]string, 0, len(abbreviations))
	for _, a := range abbreviations {
		if strings.ContainsAny(a, ", ") || a == "" {
			return nil, fmt.Errorf("abbreviation %q cannot be encoded in a share link", a)
		}
		abbrs = append(abbrs, a)
	}

	return &ShareLink{base: base, abbreviations: abbrs}, nil
}

// Query returns "timezones=A,B,C". Commas stay literal so the link is readable.
func (l *ShareLink) Query() string {
	escaped := make([]string, len(l.abbreviations))
	for i, a := range l.abbreviations {
		escaped[i] = url.QueryEscape(a)
	}
	return ShareLinkParam + "=" + strings.Join(escaped, ",")
}

// String returns the full link
func (l *ShareLink) String() string {
	return l.base + "?" + l.Query()
}

// ParseShareQuery extracts the abbreviation list from a query string, a
// "?query", or a full URL. present is false when the parameter is absent or
// blank, in which case callers keep their current list.
func ParseShareQuery(raw string) (abbreviations []string, present bool, err error) {
	if i := strings.Index(raw, "?"); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.Index(raw, "#"); i >= 0 {
		raw = raw[:i]
	}

	values, parseErr := url.ParseQuery(raw)
	if !values.Has(ShareLinkParam) {
		if parseErr != nil {
			return nil, false, fmt.Errorf("failed to parse share query: %w", parseErr)
		}
		return nil, false, nil
	}

	param := strings.TrimSpace(values.Get(ShareLinkParam))
	if param == "" {
		return nil, false, nil
	}

	for _, part := range strings.Split(param, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			abbreviations = append(abbreviations, trimmed)
		}
	}
	return abbreviations, true, nil
}
