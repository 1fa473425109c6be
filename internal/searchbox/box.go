// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package searchbox is the controller behind the directory's incremental
// search box. A Box owns the typed text, debounces it, resolves committed
// queries through the shared caches and its own request coordinators, and
// exposes the dropdown as a state machine with a keyboard-navigable item
// list.
//
// Host input events map onto Box methods (Focus, Blur, Input, Key, Choose,
// Hover). Timers and network completions arrive on other goroutines; every
// mutation is serialized by the Box, so the host sees one logical writer.
package searchbox

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rohanthewiz/logger"

	"github.com/pdiddy/buffet-search/internal/cache"
	"github.com/pdiddy/buffet-search/internal/coordinator"
	"github.com/pdiddy/buffet-search/internal/debounce"
	"github.com/pdiddy/buffet-search/internal/navlist"
	"github.com/pdiddy/buffet-search/internal/query"
	"github.com/pdiddy/buffet-search/pkg/types"
)

// Backend is the search service as seen by a Box.
type Backend interface {
	Search(ctx context.Context, q string, limit int, citySlug string) (types.ResultBundle, error)
	Suggestions(ctx context.Context, citySlug string) (types.SuggestionBundle, error)
}

// Navigator performs page navigation to an href produced by the box.
type Navigator interface {
	Navigate(href string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(href string)

// Navigate calls f(href).
func (f NavigatorFunc) Navigate(href string) { f(href) }

// Options configures a Box.
type Options struct {
	Config  types.SearchBoxConfig
	Backend Backend

	// Results and Suggestions are shared between boxes; nil creates a
	// private cache with the configured sizing.
	Results     *cache.Cache[types.ResultBundle]
	Suggestions *cache.Cache[types.SuggestionBundle]

	// Clock drives debounce and blur timers and cache expiry of private
	// caches. Nil selects the real clock.
	Clock clockwork.Clock

	Navigator Navigator

	// OnChange is called after anything visible may have changed. It runs
	// with no Box lock held and may call Snapshot.
	OnChange func()
}

// Snapshot is a consistent view of the box for rendering.
type Snapshot struct {
	ID        string         `json:"id"`
	State     State          `json:"state"`
	Query     string         `json:"query"`
	Mode      navlist.Mode   `json:"mode"`
	Items     []navlist.Item `json:"items"`
	Highlight int            `json:"highlight"`
}

// Open reports whether the dropdown is visible.
func (s Snapshot) Open() bool { return s.State.Open() }

// viewRef names the data an item list was derived from. A highlight is only
// meaningful for the viewRef it was chosen on.
type viewRef struct {
	mode  navlist.Mode
	key   string
	token coordinator.Token
}

// Box is one search box instance.
type Box struct {
	id       string
	cfg      types.SearchBoxConfig
	backend  Backend
	clock    clockwork.Clock
	nav      Navigator
	onChange func()

	ctx    context.Context
	cancel context.CancelFunc

	results     *coordinator.Coordinator[types.ResultBundle]
	suggestions *coordinator.Coordinator[types.SuggestionBundle]
	debouncer   *debounce.Debouncer

	mu            sync.Mutex
	text          string
	open          bool
	focused       bool
	dismissed     bool
	torn          bool
	highlight     int
	highlightView viewRef
	blurTimer     clockwork.Timer
	blurGen       uint64
}

// New creates a Box. Backend is required.
func New(opts Options) (*Box, error) {
	if opts.Backend == nil {
		return nil, errors.New("search box needs a backend")
	}
	cfg := opts.Config.WithDefaults()
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	results := opts.Results
	if results == nil {
		c, err := cache.New[types.ResultBundle](cfg.Results, clock)
		if err != nil {
			return nil, err
		}
		results = c
	}
	suggestions := opts.Suggestions
	if suggestions == nil {
		c, err := cache.New[types.SuggestionBundle](cfg.Suggestions, clock)
		if err != nil {
			return nil, err
		}
		suggestions = c
	}

	nav := opts.Navigator
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Box{
		id:        uuid.NewString(),
		cfg:       cfg,
		backend:   opts.Backend,
		clock:     clock,
		nav:       nav,
		onChange:  opts.OnChange,
		ctx:       ctx,
		cancel:    cancel,
		highlight: -1,
	}
	b.results = coordinator.New(results, types.EmptyResults(),
		coordinator.WithName("results"), coordinator.WithNotify(b.changed))
	b.suggestions = coordinator.New(suggestions, types.EmptySuggestions(),
		coordinator.WithName("suggestions"), coordinator.WithNotify(b.changed))
	b.debouncer = debounce.New(clock, cfg.Debounce, cfg.MinQueryLength, b.commit)

	logger.Debug("search box created", "box", b.id, "city", cfg.CitySlug)
	return b, nil
}

// ID returns the instance identifier used in log fields.
func (b *Box) ID() string { return b.id }

// Focus opens the dropdown. With nothing typed, popular suggestions are
// requested unless they are already shown.
func (b *Box) Focus() {
	b.mu.Lock()
	if b.torn {
		b.mu.Unlock()
		return
	}
	b.stopBlurLocked()
	b.focused = true
	b.openLocked()
	b.mu.Unlock()
	b.changed()
}

// Blur closes the dropdown after the blur grace period, unless focus
// returns first. A pointer selection made during the grace period still
// registers.
func (b *Box) Blur() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.torn {
		return
	}
	b.focused = false
	b.stopBlurLocked()
	gen := b.blurGen
	b.blurTimer = b.clock.AfterFunc(b.cfg.BlurGrace, func() { b.blurExpired(gen) })
}

func (b *Box) blurExpired(gen uint64) {
	b.mu.Lock()
	if gen != b.blurGen || b.focused || b.torn {
		b.mu.Unlock()
		return
	}
	b.blurTimer = nil
	b.closeLocked()
	b.mu.Unlock()
	b.changed()
}

// Input replaces the typed text.
func (b *Box) Input(text string) {
	b.mu.Lock()
	if b.torn {
		b.mu.Unlock()
		return
	}
	b.setTextLocked(text)
	b.mu.Unlock()
	b.changed()
}

// Key handles a key press and reports whether the box consumed it.
//
// ArrowDown/ArrowUp move the highlight with wrap-around (and reopen a
// closed dropdown). Enter activates the highlighted item: a suggestion chip
// rewrites the query, anything else navigates. Enter with no highlight and
// a searchable query navigates to the full search page. Escape closes.
func (b *Box) Key(k Key) bool {
	b.mu.Lock()
	if b.torn {
		b.mu.Unlock()
		return false
	}

	var href string
	handled := false
	switch k {
	case KeyEscape:
		if b.open {
			b.closeLocked()
			handled = true
		}
	case KeyArrowDown, KeyArrowUp:
		if !b.open {
			b.openLocked()
			handled = true
			break
		}
		items, ref := b.itemsLocked()
		if len(items) == 0 {
			break
		}
		delta := 1
		if k == KeyArrowUp {
			delta = -1
		}
		b.highlight = navlist.Move(b.highlightLocked(ref, len(items)), delta, len(items))
		b.highlightView = ref
		handled = true
	case KeyEnter:
		href, handled = b.enterLocked()
	}
	b.mu.Unlock()

	if href != "" {
		b.nav.Navigate(href)
	}
	if handled {
		b.changed()
	}
	return handled
}

// Choose activates item i as a pointer click would.
func (b *Box) Choose(i int) bool {
	b.mu.Lock()
	if b.torn || !b.open {
		b.mu.Unlock()
		return false
	}
	items, _ := b.itemsLocked()
	if i < 0 || i >= len(items) {
		b.mu.Unlock()
		return false
	}
	href, handled := b.activateLocked(items[i])
	b.mu.Unlock()

	if href != "" {
		b.nav.Navigate(href)
	}
	b.changed()
	return handled
}

// Hover highlights item i as pointer movement would. Out of range clears
// the highlight.
func (b *Box) Hover(i int) {
	b.mu.Lock()
	if b.torn || !b.open {
		b.mu.Unlock()
		return
	}
	items, ref := b.itemsLocked()
	if i < 0 || i >= len(items) {
		i = -1
	}
	b.highlight = i
	b.highlightView = ref
	b.mu.Unlock()
	b.changed()
}

// Close tears the box down: timers are stopped, in-flight requests are
// aborted, and no completion changes the box afterwards.
func (b *Box) Close() {
	b.mu.Lock()
	if b.torn {
		b.mu.Unlock()
		return
	}
	b.torn = true
	b.open = false
	b.highlight = -1
	b.stopBlurLocked()
	b.mu.Unlock()

	b.debouncer.Cancel()
	b.results.Close()
	b.suggestions.Close()
	b.cancel()
	logger.Debug("search box closed", "box", b.id)
}

// Wait blocks until every request goroutine started by the box has returned.
func (b *Box) Wait() {
	b.results.Wait()
	b.suggestions.Wait()
}

// Query returns the typed text as entered.
func (b *Box) Query() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// State returns the current dropdown state.
func (b *Box) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// Snapshot returns state, text, items, and highlight taken together.
func (b *Box) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Snapshot{
		ID:        b.id,
		State:     b.stateLocked(),
		Query:     b.text,
		Mode:      navlist.ModeResults,
		Highlight: -1,
	}
	if query.Trim(b.text) == "" {
		s.Mode = navlist.ModeSuggestions
	}
	if !b.open {
		s.Items = []navlist.Item{}
		return s
	}
	items, ref := b.itemsLocked()
	s.Items = items
	s.Highlight = b.highlightLocked(ref, len(items))
	return s
}

func (b *Box) stateLocked() State {
	if b.torn {
		return Closed
	}
	if !b.open {
		if b.dismissed {
			return Closed
		}
		return Idle
	}

	trimmed := query.Trim(b.text)
	if trimmed == "" {
		return EmptyQuery
	}
	if !query.Searchable(trimmed, b.cfg.MinQueryLength) {
		return BelowThreshold
	}
	if _, pending := b.debouncer.Pending(); pending {
		return Debouncing
	}

	v := b.results.View()
	if v.Key != b.resultKey(trimmed) {
		// Settled but not yet committed.
		return Debouncing
	}
	switch v.Status {
	case coordinator.StatusPending:
		return Loading
	case coordinator.StatusReady:
		if v.Payload.IsEmpty() {
			return EmptyResults
		}
		return Populated
	case coordinator.StatusFailed:
		return EmptyResults
	default:
		return Debouncing
	}
}

// itemsLocked derives the item list for the current text. Results are only
// used when they belong to the typed query.
func (b *Box) itemsLocked() ([]navlist.Item, viewRef) {
	trimmed := query.Trim(b.text)
	if trimmed == "" {
		v := b.suggestions.View()
		ref := viewRef{mode: navlist.ModeSuggestions, key: v.Key, token: v.Token}
		s := types.EmptySuggestions()
		if v.Status == coordinator.StatusReady && v.Key == b.suggestionKey() {
			s = v.Payload
		}
		return navlist.Build(navlist.Input{Mode: navlist.ModeSuggestions, Suggestions: s}), ref
	}

	in := navlist.Input{
		Mode:     navlist.ModeResults,
		Query:    trimmed,
		CitySlug: b.cfg.CitySlug,
		Results:  types.EmptyResults(),
	}
	ref := viewRef{mode: navlist.ModeResults, key: b.resultKey(trimmed)}
	if query.Searchable(trimmed, b.cfg.MinQueryLength) {
		if v := b.results.View(); v.Key == ref.key && v.Status == coordinator.StatusReady {
			in.Results = v.Payload
			ref.token = v.Token
		}
	}
	return navlist.Build(in), ref
}

func (b *Box) highlightLocked(ref viewRef, n int) int {
	if ref != b.highlightView || b.highlight < 0 || b.highlight >= n {
		return -1
	}
	return b.highlight
}

func (b *Box) enterLocked() (string, bool) {
	if b.open {
		items, ref := b.itemsLocked()
		if hl := b.highlightLocked(ref, len(items)); hl >= 0 {
			return b.activateLocked(items[hl])
		}
	}
	if query.Searchable(b.text, b.cfg.MinQueryLength) {
		href := navlist.SearchHref(b.text, b.cfg.CitySlug)
		b.leaveLocked()
		return href, true
	}
	return "", false
}

// activateLocked selects an item. It returns the href to navigate to, if any.
func (b *Box) activateLocked(it navlist.Item) (string, bool) {
	if !it.Navigates() {
		b.setTextLocked(it.DisplayValue)
		return "", true
	}
	b.leaveLocked()
	return it.Href, true
}

func (b *Box) setTextLocked(text string) {
	b.text = text
	b.open = true
	b.dismissed = false
	b.highlight = -1

	trimmed := query.Trim(text)
	switch {
	case trimmed == "":
		b.debouncer.Cancel()
		b.results.Reset()
		b.requestSuggestionsLocked()
	case !query.Searchable(trimmed, b.cfg.MinQueryLength):
		b.debouncer.Cancel()
		b.results.Reset()
	default:
		b.debouncer.Push(trimmed)
	}
}

// commit runs when typing has settled on value.
func (b *Box) commit(value string) {
	b.mu.Lock()
	if b.torn || query.Normalize(b.text) != query.Normalize(value) {
		b.mu.Unlock()
		return
	}
	key := b.resultKey(value)
	limit, city := b.cfg.ResultLimit, b.cfg.CitySlug
	tok, hit := b.results.Resolve(b.ctx, key, func(ctx context.Context) (types.ResultBundle, error) {
		return b.backend.Search(ctx, value, limit, city)
	})
	b.mu.Unlock()

	logger.Debug("search box committed query",
		"box", b.id, "query", value, "token", tok.String(), "cached", boolString(hit))
	b.changed()
}

func (b *Box) openLocked() {
	b.open = true
	b.dismissed = false
	trimmed := query.Trim(b.text)
	switch {
	case trimmed == "":
		b.requestSuggestionsLocked()
	case query.Searchable(trimmed, b.cfg.MinQueryLength):
		b.resumeLocked(trimmed)
	}
}

// resumeLocked re-arms the debounce for a searchable query whose commit was
// dropped when the dropdown last closed.
func (b *Box) resumeLocked(trimmed string) {
	if _, pending := b.debouncer.Pending(); pending {
		return
	}
	if b.results.View().Key == b.resultKey(trimmed) {
		return
	}
	b.debouncer.Push(trimmed)
}

func (b *Box) requestSuggestionsLocked() {
	key := b.suggestionKey()
	if v := b.suggestions.View(); v.Key == key && v.Status == coordinator.StatusReady {
		return
	}
	city := b.cfg.CitySlug
	b.suggestions.Resolve(b.ctx, key, func(ctx context.Context) (types.SuggestionBundle, error) {
		return b.backend.Suggestions(ctx, city)
	})
}

// leaveLocked closes the dropdown ahead of a navigation.
func (b *Box) leaveLocked() {
	b.debouncer.Cancel()
	b.closeLocked()
}

func (b *Box) closeLocked() {
	b.open = false
	b.dismissed = true
	b.highlight = -1
	b.stopBlurLocked()
}

func (b *Box) stopBlurLocked() {
	if b.blurTimer != nil {
		b.blurTimer.Stop()
		b.blurTimer = nil
	}
	b.blurGen++
}

func (b *Box) resultKey(q string) string {
	return cache.ResultKey(q, b.cfg.ResultLimit, b.cfg.CitySlug)
}

func (b *Box) suggestionKey() string {
	return cache.SuggestionKey(b.cfg.CitySlug)
}

func (b *Box) changed() {
	if b.onChange != nil {
		b.onChange()
	}
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
