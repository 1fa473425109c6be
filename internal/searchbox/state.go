// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package searchbox

// State is the visible state of the dropdown.
type State int

const (
	// Idle: never focused; dropdown closed.
	Idle State = iota
	// EmptyQuery: open with nothing typed; popular suggestions shown.
	EmptyQuery
	// BelowThreshold: open, query too short to send.
	BelowThreshold
	// Debouncing: waiting for typing to pause.
	Debouncing
	// Loading: the request for the typed query is in flight.
	Loading
	// Populated: results for the typed query are shown.
	Populated
	// EmptyResults: the typed query matched nothing, or the request failed.
	EmptyResults
	// Closed: dismissed by blur, Escape, or navigation.
	Closed
)

var stateNames = [...]string{
	Idle:           "idle",
	EmptyQuery:     "empty-query",
	BelowThreshold: "below-threshold",
	Debouncing:     "debouncing",
	Loading:        "loading",
	Populated:      "populated",
	EmptyResults:   "empty-results",
	Closed:         "closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText renders the state by name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Open reports whether the dropdown is visible in this state.
func (s State) Open() bool {
	return s != Idle && s != Closed
}

// Key is a keyboard key the search box reacts to.
type Key int

const (
	KeyArrowDown Key = iota
	KeyArrowUp
	KeyEnter
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyArrowDown:
		return "ArrowDown"
	case KeyArrowUp:
		return "ArrowUp"
	case KeyEnter:
		return "Enter"
	case KeyEscape:
		return "Escape"
	default:
		return "unknown"
	}
}
