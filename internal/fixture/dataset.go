// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fixture is a small, file-backed stand-in for the directory's
// search service. It answers the same two endpoints from a YAML dataset so
// the search box can be exercised without the production backend.
package fixture

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/buffet-search/internal/query"
	"github.com/pdiddy/buffet-search/pkg/types"
)

//go:embed data/buffets.yaml
var defaultData []byte

const (
	maxCities        = 5
	maxNeighborhoods = 5
	defaultLimit     = 8
)

// Dataset is the directory content served by the fixture.
type Dataset struct {
	Cities          []types.City         `yaml:"cities"`
	Neighborhoods   []types.Neighborhood `yaml:"neighborhoods"`
	Places          []types.Place        `yaml:"places"`
	PopularQueries  []string             `yaml:"popular_queries"`
	PopularPlaceIDs []string             `yaml:"popular_places"`
}

// Default returns the built-in dataset.
func Default() (*Dataset, error) {
	return Parse(defaultData)
}

// Load reads a dataset from a YAML file. An empty path selects the
// built-in dataset.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture data %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a YAML dataset and fills in buffet counts.
func Parse(data []byte) (*Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing fixture data: %w", err)
	}
	for i, p := range d.Places {
		if p.ID == "" {
			return nil, fmt.Errorf("place %d (%q) has no id", i, p.Name)
		}
	}
	d.count()
	return &d, nil
}

// count derives buffet counts from the places list.
func (d *Dataset) count() {
	byCity := map[string]int{}
	byHood := map[string]int{}
	for _, p := range d.Places {
		if p.CitySlug == "" {
			continue
		}
		byCity[p.CitySlug]++
		if p.Neighborhood != "" {
			byHood[p.CitySlug+"/"+strings.ToLower(p.Neighborhood)]++
		}
	}
	for i := range d.Cities {
		if d.Cities[i].BuffetCount == 0 {
			d.Cities[i].BuffetCount = byCity[d.Cities[i].Slug]
		}
	}
	for i := range d.Neighborhoods {
		n := &d.Neighborhoods[i]
		if n.BuffetCount == 0 {
			n.BuffetCount = byHood[n.CitySlug+"/"+strings.ToLower(n.Neighborhood)]
		}
	}
}

// Lookup matches q as a case-insensitive substring of names. citySlug, when
// set, restricts neighborhoods and places to that city. limit caps places;
// cities and neighborhoods have fixed caps.
func (d *Dataset) Lookup(q string, limit int, citySlug string) types.ResultBundle {
	needle := query.Normalize(q)
	out := types.ResultBundle{Query: query.Trim(q)}.Normalized()
	if needle == "" {
		return out
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	for _, c := range d.Cities {
		if len(out.Cities) == maxCities {
			break
		}
		if matches(c.City, needle) || matches(c.Slug, needle) {
			out.Cities = append(out.Cities, c)
		}
	}
	for _, n := range d.Neighborhoods {
		if len(out.Neighborhoods) == maxNeighborhoods {
			break
		}
		if citySlug != "" && n.CitySlug != citySlug {
			continue
		}
		if matches(n.Neighborhood, needle) {
			out.Neighborhoods = append(out.Neighborhoods, n)
		}
	}

	var places []types.Place
	for _, p := range d.Places {
		if citySlug != "" && p.CitySlug != citySlug {
			continue
		}
		if matches(p.Name, needle) {
			places = append(places, p)
		}
	}
	sort.SliceStable(places, func(i, j int) bool {
		return rating(places[i]) > rating(places[j])
	})
	if len(places) > limit {
		places = places[:limit]
	}
	out.Results = append(out.Results, places...)
	return out
}

// Popular returns the suggestions bundle. citySlug, when set, keeps only
// popular places in that city.
func (d *Dataset) Popular(citySlug string) types.SuggestionBundle {
	byID := make(map[string]types.Place, len(d.Places))
	for _, p := range d.Places {
		byID[p.ID] = p
	}

	out := types.EmptySuggestions()
	out.PopularQueries = append(out.PopularQueries, d.PopularQueries...)
	for _, id := range d.PopularPlaceIDs {
		p, ok := byID[id]
		if !ok {
			continue
		}
		if citySlug != "" && p.CitySlug != citySlug {
			continue
		}
		out.PopularPlaces = append(out.PopularPlaces, p)
	}
	return out
}

// Search implements the search box backend in-process.
func (d *Dataset) Search(ctx context.Context, q string, limit int, citySlug string) (types.ResultBundle, error) {
	if err := ctx.Err(); err != nil {
		return types.EmptyResults(), err
	}
	return d.Lookup(q, limit, citySlug), nil
}

// Suggestions implements the search box backend in-process.
func (d *Dataset) Suggestions(ctx context.Context, citySlug string) (types.SuggestionBundle, error) {
	if err := ctx.Err(); err != nil {
		return types.EmptySuggestions(), err
	}
	return d.Popular(citySlug), nil
}

func matches(s, needle string) bool {
	return strings.Contains(query.Normalize(s), needle)
}

func rating(p types.Place) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}
