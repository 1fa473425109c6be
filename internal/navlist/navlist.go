// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package navlist flattens the search dropdown into an ordered list of
// selectable items. The order is the keyboard traversal order, so Build is
// a pure function: identical inputs always produce identical lists.
package navlist

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/buffet-search/internal/query"
	"github.com/pdiddy/buffet-search/pkg/types"
)

// Kind tells what selecting an item does.
type Kind string

const (
	// KindSuggestion is a popular query chip; selecting it rewrites the query.
	KindSuggestion Kind = "suggestion"
	// KindPlace is a popular buffet link shown before anything is typed.
	KindPlace        Kind = "place"
	KindCity         Kind = "city"
	KindNeighborhood Kind = "neighborhood"
	KindResult       Kind = "result"
	// KindFooter is the synthetic "see all results" entry.
	KindFooter Kind = "footer"
)

// Item is one selectable row of the dropdown.
type Item struct {
	Kind         Kind   `json:"kind"`
	DisplayValue string `json:"displayValue"`
	Detail       string `json:"detail,omitempty"`
	Href         string `json:"href,omitempty"`
	// Count is the number of primary results, set on the footer only.
	Count int `json:"count,omitempty"`
}

// Navigates reports whether selecting the item leaves the page.
func (it Item) Navigates() bool {
	return it.Kind != KindSuggestion
}

// Mode selects which data the dropdown shows.
type Mode int

const (
	// ModeSuggestions is used while the query is empty.
	ModeSuggestions Mode = iota
	// ModeResults is used once something has been typed.
	ModeResults
)

func (m Mode) String() string {
	if m == ModeSuggestions {
		return "suggestions"
	}
	return "results"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Input is everything Build depends on.
type Input struct {
	Mode        Mode
	Query       string
	CitySlug    string
	Results     types.ResultBundle
	Suggestions types.SuggestionBundle
}

// Build returns the flattened item list.
//
// Results mode: cities, neighborhoods, primary results, then a footer if
// any of them is non-empty. Suggestions mode: popular query chips, then
// popular places.
func Build(in Input) []Item {
	if in.Mode == ModeSuggestions {
		return buildSuggestions(in.Suggestions)
	}
	return buildResults(in.Query, in.CitySlug, in.Results)
}

func buildSuggestions(s types.SuggestionBundle) []Item {
	items := make([]Item, 0, len(s.PopularQueries)+len(s.PopularPlaces))
	for _, q := range s.PopularQueries {
		items = append(items, Item{Kind: KindSuggestion, DisplayValue: q})
	}
	for _, p := range s.PopularPlaces {
		items = append(items, Item{
			Kind:         KindPlace,
			DisplayValue: p.Name,
			Detail:       location(p.City, p.State),
			Href:         PlaceHref(p),
		})
	}
	return items
}

func buildResults(q, citySlug string, b types.ResultBundle) []Item {
	if b.IsEmpty() {
		return []Item{}
	}
	items := make([]Item, 0, b.Total()+1)
	for _, c := range b.Cities {
		items = append(items, Item{
			Kind:         KindCity,
			DisplayValue: location(c.City, c.State),
			Detail:       countDetail(c.BuffetCount),
			Href:         CityHref(c.Slug),
		})
	}
	for _, n := range b.Neighborhoods {
		items = append(items, Item{
			Kind:         KindNeighborhood,
			DisplayValue: n.Neighborhood,
			Detail:       location(n.City, n.State),
			Href:         NeighborhoodHref(n),
		})
	}
	for _, p := range b.Results {
		items = append(items, Item{
			Kind:         KindResult,
			DisplayValue: p.Name,
			Detail:       location(p.City, p.State),
			Href:         PlaceHref(p),
		})
	}
	items = append(items, Item{
		Kind:         KindFooter,
		DisplayValue: query.Trim(q),
		Detail:       fmt.Sprintf("See all %d results", len(b.Results)),
		Href:         SearchHref(q, citySlug),
		Count:        len(b.Results),
	})
	return items
}

// CityHref is the city landing page.
func CityHref(slug string) string {
	return "/cities/" + url.PathEscape(slug)
}

// NeighborhoodHref is the neighborhood page inside its city.
func NeighborhoodHref(n types.Neighborhood) string {
	return "/cities/" + url.PathEscape(n.CitySlug) + "/" + url.PathEscape(n.Slug)
}

// PlaceHref is the buffet detail page. The slugged route is used when both
// slugs are known; otherwise the ID route.
func PlaceHref(p types.Place) string {
	if p.Slug != "" && p.CitySlug != "" {
		return "/cities/" + url.PathEscape(p.CitySlug) + "/buffets/" + url.PathEscape(p.Slug)
	}
	return "/buffets/" + url.PathEscape(p.ID)
}

// SearchHref is the full search results page for q.
func SearchHref(q, citySlug string) string {
	v := url.Values{"q": {query.Trim(q)}}
	if citySlug != "" {
		v.Set("city", citySlug)
	}
	return "/search?" + v.Encode()
}

// Move returns the highlight index after moving delta rows through n items,
// wrapping at both ends. current < 0 means nothing is highlighted: moving
// down then selects the first item and moving up the last. With no items
// the result is -1.
func Move(current, delta, n int) int {
	if n <= 0 {
		return -1
	}
	if current < 0 || current >= n {
		if delta >= 0 {
			return 0
		}
		return n - 1
	}
	return ((current+delta)%n + n) % n
}

func location(city, state string) string {
	parts := make([]string, 0, 2)
	if city = strings.TrimSpace(city); city != "" {
		parts = append(parts, city)
	}
	if state = strings.TrimSpace(state); state != "" {
		parts = append(parts, state)
	}
	return strings.Join(parts, ", ")
}

func countDetail(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "1 buffet"
	default:
		return fmt.Sprintf("%d buffets", n)
	}
}
