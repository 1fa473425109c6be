// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package navlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  []Segment
	}{
		{
			name:  "prefix match keeps original case",
			text:  "Golden Dragon Buffet",
			query: "gold",
			want:  []Segment{{Text: "Gold", Match: true}, {Text: "en Dragon Buffet"}},
		},
		{
			name:  "inner match",
			text:  "Golden Dragon Buffet",
			query: "DRAGON",
			want:  []Segment{{Text: "Golden "}, {Text: "Dragon", Match: true}, {Text: " Buffet"}},
		},
		{
			name:  "repeated matches",
			text:  "Buffet Buffet",
			query: "buffet",
			want:  []Segment{{Text: "Buffet", Match: true}, {Text: " "}, {Text: "Buffet", Match: true}},
		},
		{
			name:  "no match",
			text:  "Pizza Inn",
			query: "sushi",
			want:  []Segment{{Text: "Pizza Inn"}},
		},
		{
			name:  "empty query",
			text:  "Pizza Inn",
			query: "  ",
			want:  []Segment{{Text: "Pizza Inn"}},
		},
		{
			name:  "non-ascii",
			text:  "Café Élysée",
			query: "élysée",
			want:  []Segment{{Text: "Café "}, {Text: "Élysée", Match: true}},
		},
		{
			name:  "decomposed query matches composed text",
			text:  "Café Crème Brunch Buffet",
			query: "CAFE\u0301",
			want:  []Segment{{Text: "Café", Match: true}, {Text: " Crème Brunch Buffet"}},
		},
		{
			name:  "decomposed text is composed",
			text:  "Cre\u0300me",
			query: "crème",
			want:  []Segment{{Text: "Crème", Match: true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.query))
		})
	}
}

func TestHighlightEmptyText(t *testing.T) {
	assert.Nil(t, Highlight("", "gold"))
}
