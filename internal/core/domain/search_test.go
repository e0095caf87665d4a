package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchFilterMatches(t *testing.T) {
	meta := ChunkMetadata{
		SourceDomain: "docs.example.com",
		Path:         "/users",
		Method:       "GET",
	}

	tests := []struct {
		name   string
		filter SearchFilter
		want   bool
	}{
		{"empty filter matches all", SearchFilter{}, true},
		{"matching source", SearchFilter{Source: "docs.example.com"}, true},
		{"wrong source", SearchFilter{Source: "other.example.com"}, false},
		{"matching path and method", SearchFilter{Path: "/users", Method: "GET"}, true},
		{"wrong method", SearchFilter{Path: "/users", Method: "POST"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(meta))
		})
	}
}

func TestSearchResultKey(t *testing.T) {
	r := SearchResult{URL: "https://example.com/doc", ChunkIndex: 3}
	assert.Equal(t, ChunkKey{URL: "https://example.com/doc", ChunkIndex: 3}, r.Key())
}
