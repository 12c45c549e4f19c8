package resolver

import (
	"net/url"
	"strings"
)

// NormalizeJobURL reduces a job application URL to a canonical form for
// cache matching: scheme, "www." prefix, query string, fragment, and any
// trailing slash are ignored, and the host is lowercased. Two URLs that
// normalize equal refer to the same posting.
//
// Malformed input falls back to coarse string trimming so that lookup
// degrades to "no match" rather than erroring.
func NormalizeJobURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// Retry with a scheme so host-less inputs like "site.com/job/1"
		// still parse.
		u, err = url.Parse("https://" + raw)
		if err != nil || u.Host == "" {
			return strings.TrimSuffix(strings.ToLower(raw), "/")
		}
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	path := strings.TrimSuffix(u.Path, "/")

	return host + path
}
