// Package urlcheck validates and normalizes submitted destination URLs.
package urlcheck

import (
	"net/url"
	"strings"
)

const defaultScheme = "https://"

func hasHTTPScheme(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

// IsValid reports whether raw, after Normalize, parses as an absolute
// http or https URL with a host.
func IsValid(raw string) bool {
	if raw == "" {
		return false
	}

	parsed, err := url.Parse(Normalize(raw))
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

// Normalize prefixes https:// unless raw already has an http(s) scheme.
func Normalize(raw string) string {
	if hasHTTPScheme(raw) {
		return raw
	}
	return defaultScheme + raw
}
