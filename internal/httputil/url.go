// ABOUTME: Instance URL normalization so endpoint paths can be appended verbatim
// ABOUTME: Adds a missing https scheme and strips trailing /api or /api/v1 suffixes

package httputil

import (
	"net/url"
	"strings"
)

// NormalizeBaseURL turns a configured instance address into a base URL that
// endpoint paths like "/api/v1/statuses" can be appended to.
// "example.social", "https://example.social/" and "https://example.social/api/v1"
// all become "https://example.social".
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return ""
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}

	switch u.Path {
	case "/api", "/api/v1":
		u.Path = ""
		return strings.TrimRight(u.String(), "/")
	}

	return baseURL
}
