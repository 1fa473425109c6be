// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/pdiddy/buffet-search/internal/navlist"
	"github.com/pdiddy/buffet-search/internal/searchbox"
)

const ellipsis = "…"

var (
	styleBase   = tcell.StyleDefault
	styleDim    = tcell.StyleDefault.Dim(true)
	styleMatch  = tcell.StyleDefault.Bold(true)
	styleTitle  = tcell.StyleDefault.Bold(true).Underline(true)
	styleSelect = tcell.StyleDefault.Reverse(true)
)

var kindLabels = map[navlist.Kind]string{
	navlist.KindSuggestion:   "popular",
	navlist.KindPlace:        "buffet",
	navlist.KindCity:         "city",
	navlist.KindNeighborhood: "area",
	navlist.KindResult:       "buffet",
}

func (app *App) render() {
	s := app.screen
	s.Clear()
	w, h := s.Size()
	snap := app.box.Snapshot()

	x := drawText(s, 0, titleRow, w, app.title, styleTitle)
	drawText(s, x+1, titleRow, w, "["+snap.State.String()+"]", styleDim)

	x = drawText(s, 0, inputRow, w, prompt, styleDim)
	x = drawText(s, x, inputRow, w, snap.Query, styleBase)
	s.ShowCursor(x, inputRow)

	y := firstItem
	if snap.Open() {
		if msg := stateMessage(snap); msg != "" {
			drawText(s, 2, y, w, msg, styleDim)
			y++
		}
		for i, it := range snap.Items {
			if y >= h-1 {
				break
			}
			drawItem(s, y, w, it, snap.Query, i == snap.Highlight)
			y++
		}
	}

	if status := app.Status(); status != "" {
		drawText(s, 0, h-1, w, status, styleDim)
	}
	s.Show()
}

// stateMessage is the placeholder line shown when there is nothing to list.
func stateMessage(snap searchbox.Snapshot) string {
	if len(snap.Items) > 0 {
		return ""
	}
	switch snap.State {
	case searchbox.BelowThreshold:
		return "Keep typing…"
	case searchbox.Debouncing, searchbox.Loading:
		return "Searching…"
	case searchbox.EmptyResults:
		return fmt.Sprintf("No buffets match %q", snap.Query)
	}
	return ""
}

func drawItem(s tcell.Screen, y, w int, it navlist.Item, q string, selected bool) {
	base, match, dim := styleBase, styleMatch, styleDim
	if selected {
		base, match, dim = styleSelect, styleSelect.Bold(true), styleSelect.Dim(true)
		for x := 0; x < w; x++ {
			s.SetContent(x, y, ' ', nil, base)
		}
	}

	x := 2
	if it.Kind == navlist.KindFooter {
		drawText(s, x, y, w, fmt.Sprintf("%s for %q", it.Detail, it.DisplayValue), match)
		return
	}

	x = drawText(s, x, y, w, fmt.Sprintf("%-7s", kindLabels[it.Kind]), dim)
	x++
	for _, seg := range navlist.Highlight(it.DisplayValue, q) {
		style := base
		if seg.Match {
			style = match
		}
		x = drawText(s, x, y, w, seg.Text, style)
	}
	if it.Detail != "" {
		drawText(s, x+2, y, w, it.Detail, dim)
	}
}

// drawText writes text from column x, clipping with an ellipsis at maxX.
// It returns the column after the last cell written.
func drawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	if x >= maxX {
		return x
	}
	if runewidth.StringWidth(text) > maxX-x {
		text = runewidth.Truncate(text, maxX-x, ellipsis)
	}
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw <= 0 {
			rw = 1
		}
		if x+rw > maxX {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
	return x
}
