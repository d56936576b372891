package api

// Cache-Control header values.
const (
	CacheFiveMinutes = "public, max-age=300"
	CacheNoStore     = "no-store"
)

// Content types for non-JSON responses.
const (
	ContentTypeHTML = "text/html; charset=utf-8"
)
