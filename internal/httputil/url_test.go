// ABOUTME: Tests for NormalizeBaseURL on instance addresses
// ABOUTME: Covers bare hosts, trailing slashes and /api/v1 suffixes

package httputil

import "testing"

func TestNormalizeBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare host gets https", "example.social", "https://example.social"},
		{"strips trailing slash", "https://example.social/", "https://example.social"},
		{"strips /api/v1", "https://example.social/api/v1", "https://example.social"},
		{"strips /api/v1/", "https://example.social/api/v1/", "https://example.social"},
		{"strips /api", "http://localhost:4000/api", "http://localhost:4000"},
		{"keeps other paths", "https://example.social/pleroma", "https://example.social/pleroma"},
		{"keeps http scheme", "http://127.0.0.1:8080", "http://127.0.0.1:8080"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeBaseURL(tt.input); got != tt.want {
				t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
