package repository

// LocationProvider abstracts the page location carrying the shareable link
type LocationProvider interface {
	// BaseURL returns the link base without query, e.g. "https://host/"
	BaseURL() string

	// Query returns the raw query the board was loaded with
	Query() string

	// ReplaceQuery records the query after a mutating action
	ReplaceQuery(rawQuery string)
}
