// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the buffet search box.
// The response shapes mirror the JSON returned by the directory's search
// service; config structs carry both JSON and YAML tags.
package types

// Place is a lightweight buffet record as returned by the search service.
type Place struct {
	// ID is the service identifier for the buffet.
	ID string `json:"id" yaml:"id"`

	// Name is the display name (e.g. "Golden Dragon Buffet").
	Name string `json:"name" yaml:"name"`

	// Slug is the URL segment for the buffet page, if the service knows it.
	Slug string `json:"slug,omitempty" yaml:"slug,omitempty"`

	City     string `json:"city,omitempty" yaml:"city,omitempty"`
	State    string `json:"state,omitempty" yaml:"state,omitempty"`
	CitySlug string `json:"citySlug,omitempty" yaml:"city_slug,omitempty"`

	Neighborhood string `json:"neighborhood,omitempty" yaml:"neighborhood,omitempty"`

	// Rating is the average review rating; nil when the buffet has none.
	Rating *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// City is a city hit in a search response.
type City struct {
	Slug        string `json:"slug" yaml:"slug"`
	City        string `json:"city" yaml:"city"`
	State       string `json:"state,omitempty" yaml:"state,omitempty"`
	BuffetCount int    `json:"buffetCount,omitempty" yaml:"buffet_count,omitempty"`
}

// Neighborhood is a neighborhood hit in a search response.
type Neighborhood struct {
	Slug         string `json:"slug" yaml:"slug"`
	Neighborhood string `json:"neighborhood" yaml:"neighborhood"`
	CitySlug     string `json:"citySlug" yaml:"city_slug"`
	City         string `json:"city,omitempty" yaml:"city,omitempty"`
	State        string `json:"state,omitempty" yaml:"state,omitempty"`
	BuffetCount  int    `json:"buffetCount,omitempty" yaml:"buffet_count,omitempty"`
}

// ResultBundle is the categorized response of GET /search.
type ResultBundle struct {
	Query         string         `json:"q" yaml:"q"`
	Results       []Place        `json:"results" yaml:"results"`
	Cities        []City         `json:"cities" yaml:"cities"`
	Neighborhoods []Neighborhood `json:"neighborhoods" yaml:"neighborhoods"`
}

// EmptyResults returns a bundle whose categories are present but empty.
func EmptyResults() ResultBundle {
	return ResultBundle{}.Normalized()
}

// Normalized returns a copy in which every nil category is an empty list,
// so consumers never need to distinguish absent from empty.
func (b ResultBundle) Normalized() ResultBundle {
	if b.Results == nil {
		b.Results = []Place{}
	}
	if b.Cities == nil {
		b.Cities = []City{}
	}
	if b.Neighborhoods == nil {
		b.Neighborhoods = []Neighborhood{}
	}
	return b
}

// IsEmpty reports whether every category is empty.
func (b ResultBundle) IsEmpty() bool {
	return len(b.Results) == 0 && len(b.Cities) == 0 && len(b.Neighborhoods) == 0
}

// Total counts the entries across all categories.
func (b ResultBundle) Total() int {
	return len(b.Results) + len(b.Cities) + len(b.Neighborhoods)
}

// SuggestionBundle holds the popular suggestions shown before anything is typed.
type SuggestionBundle struct {
	PopularQueries []string `json:"popularQueries" yaml:"popular_queries"`
	PopularPlaces  []Place  `json:"popularPlaces" yaml:"popular_places"`
}

// EmptySuggestions returns a bundle with empty, non-nil lists.
func EmptySuggestions() SuggestionBundle {
	return SuggestionBundle{}.Normalized()
}

// Normalized returns a copy in which nil lists are empty lists.
func (s SuggestionBundle) Normalized() SuggestionBundle {
	if s.PopularQueries == nil {
		s.PopularQueries = []string{}
	}
	if s.PopularPlaces == nil {
		s.PopularPlaces = []Place{}
	}
	return s
}

// IsEmpty reports whether there is nothing to suggest.
func (s SuggestionBundle) IsEmpty() bool {
	return len(s.PopularQueries) == 0 && len(s.PopularPlaces) == 0
}
