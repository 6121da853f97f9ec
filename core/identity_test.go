package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCanonicalize verifies mapping lookups and the normalized fallback.
func TestCanonicalize(t *testing.T) {
	mapping := map[string]string{
		"alice@corp.example":  "alice",
		"Alice Smith":         "alice",
		"bob@old.example.com": "bob",
	}
	r := NewResolver(mapping, nil)

	tests := []struct {
		name     string
		author   string
		email    string
		expected string
	}{
		{
			name:     "email match wins",
			author:   "A. Smith",
			email:    "alice@corp.example",
			expected: "alice",
		},
		{
			name:     "display name match",
			author:   "Alice Smith",
			email:    "personal@example.com",
			expected: "alice",
		},
		{
			name:     "email match is case-insensitive",
			author:   "",
			email:    "ALICE@CORP.EXAMPLE",
			expected: "alice",
		},
		{
			name:     "unmapped identity falls back to normalized name",
			author:   "  Carol Jones ",
			email:    "carol@example.com",
			expected: "carol jones",
		},
		{
			name:     "empty name falls back to normalized email",
			author:   "",
			email:    "Dave@Example.com",
			expected: "dave@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Canonicalize(tt.author, tt.email))
		})
	}
}

// TestCanonicalizeIdempotent ensures resolving a canonical handle again
// returns the same handle.
func TestCanonicalizeIdempotent(t *testing.T) {
	r := NewResolver(map[string]string{"alice@corp.example": "alice"}, nil)

	handle := r.Canonicalize("Alice Smith", "alice@corp.example")
	assert.Equal(t, handle, r.Canonicalize(handle, ""))
	assert.Equal(t, handle, r.Canonicalize("", handle))
}

// TestExcluded checks exclusion by raw name, raw email and resolved handle.
func TestExcluded(t *testing.T) {
	mapping := map[string]string{"ci@corp.example": "ci-bot"}
	r := NewResolver(mapping, []string{"dependabot[bot]", "noreply@github.com", "ci-bot"})

	assert.True(t, r.Excluded("dependabot[bot]", "x@example.com"), "excluded by raw name")
	assert.True(t, r.Excluded("Someone", "noreply@github.com"), "excluded by raw email")
	assert.True(t, r.Excluded("CI Runner", "ci@corp.example"), "excluded by resolved handle")
	assert.False(t, r.Excluded("Alice Smith", "alice@corp.example"))
}
