package models

import "time"

// URL represents a shortened URL and its associated metadata.
type URL struct {
	// ShortCode is the short code or key associated with the original URL.
	ShortCode string
	// OriginalURL is the original, full-length URL that the short code points to.
	OriginalURL string
	// ClickCount tracks the number of times the shortened URL has been resolved.
	ClickCount uint64
	// CreatedAt is the timestamp indicating when the shortened URL was created.
	CreatedAt time.Time
}
