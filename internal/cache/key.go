// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/buffet-search/internal/query"
)

// ResultKey derives the cache key of a search request. Requests with the
// same normalized query, limit, and city map to the same key. The key is
// URL-encoded, so no query text can forge a collision with another request.
func ResultKey(q string, limit int, citySlug string) string {
	v := url.Values{
		"q":     {query.Normalize(q)},
		"limit": {strconv.Itoa(limit)},
	}
	if slug := normalizeSlug(citySlug); slug != "" {
		v.Set("city", slug)
	}
	return "search?" + v.Encode()
}

// SuggestionKey derives the cache key of the popular suggestions for a city.
// An empty slug denotes the site-wide suggestions.
func SuggestionKey(citySlug string) string {
	slug := normalizeSlug(citySlug)
	if slug == "" {
		return "suggestions"
	}
	return "suggestions?" + url.Values{"city": {slug}}.Encode()
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
