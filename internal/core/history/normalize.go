package history

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned when a raw input cannot be normalized into a
// navigable address.
var ErrInvalidURL = errors.New("invalid url")

// Normalized holds the canonical fields derived from a raw URL input.
type Normalized struct {
	Address string
	Label   string
}

// Normalize validates and canonicalizes a raw URL string. Inputs without an
// http:// or https:// scheme get https:// prepended. The result must parse as
// a URL with a host; anything else fails with ErrInvalidURL. Pure function.
func Normalize(raw string) (Normalized, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Normalized{}, ErrInvalidURL
	}

	address := trimmed
	if !hasWebScheme(trimmed) {
		address = "https://" + trimmed
	}

	u, err := url.Parse(address)
	if err != nil || u.Host == "" {
		return Normalized{}, ErrInvalidURL
	}

	return Normalized{Address: address, Label: deriveLabel(address)}, nil
}

func hasWebScheme(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// deriveLabel extracts the host portion of a normalized address for display,
// falling back to the substring before the first path separator.
func deriveLabel(address string) string {
	if u, err := url.Parse(address); err == nil && u.Host != "" {
		return u.Host
	}

	rest := strings.TrimPrefix(strings.TrimPrefix(address, "https://"), "http://")
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[:i]
	}
	return rest
}
