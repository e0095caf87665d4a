// Package urlutil provides small URL helpers shared by the fetcher and
// the ingestion pipeline.
package urlutil

import "net/url"

// Domain extracts the host from a URL, or "" when it cannot be parsed.
func Domain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

// Normalize strips the fragment and any trailing slash from a URL so
// that equivalent locations map to one stored key.
func Normalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	u.RawQuery = ""
	normalized := u.Scheme + "://" + u.Host + u.Path
	if len(u.Path) > 1 && normalized[len(normalized)-1] == '/' {
		normalized = normalized[:len(normalized)-1]
	}
	return normalized
}

// SameDomain reports whether two URLs share a host.
func SameDomain(a, b string) bool {
	da, db := Domain(a), Domain(b)
	return da != "" && da == db
}
