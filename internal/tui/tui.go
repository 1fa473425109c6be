// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is a terminal front-end for the search box: one input line
// with the dropdown rendered underneath. Keys and mouse clicks map onto
// searchbox events; asynchronous box changes wake the loop through tcell
// interrupt events.
package tui

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/pdiddy/buffet-search/internal/searchbox"
)

const (
	titleRow  = 0
	inputRow  = 1
	firstItem = 3
	prompt    = "> "
)

// App is the terminal UI bound to one search box.
type App struct {
	screen tcell.Screen
	box    *searchbox.Box
	title  string

	mu     sync.Mutex
	status string

	quit bool
}

// New creates the box from opts and binds it to screen. Navigator and
// OnChange in opts are replaced by the App's own. The screen must already
// be initialized.
func New(screen tcell.Screen, title string, opts searchbox.Options) (*App, error) {
	app := &App{screen: screen, title: title}
	opts.Navigator = app
	opts.OnChange = app.wake
	box, err := searchbox.New(opts)
	if err != nil {
		return nil, err
	}
	app.box = box
	return app, nil
}

// Box returns the bound search box.
func (app *App) Box() *searchbox.Box { return app.box }

// Navigate records the destination; a terminal cannot follow it.
func (app *App) Navigate(href string) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.status = "→ " + href
}

// Status returns the last navigation line.
func (app *App) Status() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.status
}

func (app *App) wake() {
	_ = app.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run focuses the box and processes events until the user quits or ctx is
// done. It closes the box before returning.
func (app *App) Run(ctx context.Context) {
	defer app.box.Close()

	app.box.Focus()
	app.render()

	events := make(chan tcell.Event)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	for !app.quit {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if app.handleEvent(ev) {
				app.render()
			}
		}
	}
}

// handleEvent applies one terminal event and reports whether to redraw.
func (app *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return app.handleKey(ev)
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventResize:
		app.screen.Sync()
		return true
	case *tcell.EventInterrupt:
		return true
	}
	return false
}

func (app *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		app.quit = true
		return false
	case tcell.KeyEscape:
		// Escape on a closed dropdown leaves the program.
		if !app.box.Key(searchbox.KeyEscape) {
			app.quit = true
		}
		return true
	case tcell.KeyUp:
		app.box.Key(searchbox.KeyArrowUp)
	case tcell.KeyDown:
		app.box.Key(searchbox.KeyArrowDown)
	case tcell.KeyEnter:
		app.box.Key(searchbox.KeyEnter)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		r := []rune(app.box.Query())
		if len(r) == 0 {
			return false
		}
		app.box.Input(string(r[:len(r)-1]))
	case tcell.KeyCtrlU:
		app.box.Input("")
	case tcell.KeyRune:
		app.box.Input(app.box.Query() + string(ev.Rune()))
	default:
		return false
	}
	return true
}

// handleMouse maps primary clicks on dropdown rows to selection and
// motion over them to hover.
func (app *App) handleMouse(ev *tcell.EventMouse) bool {
	_, y := ev.Position()
	row := y - firstItem
	if ev.Buttons()&tcell.Button1 != 0 {
		if row >= 0 {
			app.box.Choose(row)
		} else if y == inputRow {
			app.box.Focus()
		}
		return true
	}
	if row >= 0 {
		app.box.Hover(row)
		return true
	}
	return false
}
