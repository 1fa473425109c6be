// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package navlist

import (
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/buffet-search/internal/query"
)

// Segment is a run of display text that either matches the query or not.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match,omitempty"`
}

// Highlight splits text into segments, marking every case-insensitive,
// non-overlapping occurrence of q. Both sides are NFC-composed before
// matching, so segment text is the composed form. An empty query yields one
// plain segment; empty text yields none.
func Highlight(text, q string) []Segment {
	if text == "" {
		return nil
	}
	needle := []rune(query.Normalize(q))
	if len(needle) == 0 {
		return []Segment{{Text: text}}
	}

	hay := []rune(norm.NFC.String(text))
	var segs []Segment
	start := 0
	for i := 0; i+len(needle) <= len(hay); {
		if !matchAt(hay, needle, i) {
			i++
			continue
		}
		if i > start {
			segs = append(segs, Segment{Text: string(hay[start:i])})
		}
		segs = append(segs, Segment{Text: string(hay[i : i+len(needle)]), Match: true})
		i += len(needle)
		start = i
	}
	if start < len(hay) {
		segs = append(segs, Segment{Text: string(hay[start:])})
	}
	return segs
}

func matchAt(hay, needle []rune, at int) bool {
	for j, r := range needle {
		if unicode.ToLower(hay[at+j]) != r {
			return false
		}
	}
	return true
}
