package kv

import "testing"

func TestGlobToRegex(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"booking:*", "^booking:.*$"},
		{"catalog:m1", "^catalog:m1$"},
		{"*", "^.*$"},
		{"lock:a.b*", "^lock:a\\.b.*$"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := globToRegex(tt.pattern); got != tt.want {
				t.Errorf("globToRegex(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}
