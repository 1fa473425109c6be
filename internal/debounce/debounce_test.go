// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const window = 200 * time.Millisecond

type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) emit(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func newTestDebouncer() (*Debouncer, *clockwork.FakeClock, *recorder) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	return New(clock, window, 2, rec.emit), clock, rec
}

// settle gives timer goroutines started by Advance a chance to finish.
func settle() { time.Sleep(20 * time.Millisecond) }

func TestCoalescesBurst(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Push("bu")
	clock.Advance(50 * time.Millisecond)
	d.Push("buf")
	clock.Advance(50 * time.Millisecond)
	d.Push("buff")
	clock.Advance(window)

	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	settle()
	assert.Equal(t, []string{"buff"}, rec.get())
}

func TestNothingBeforeWindow(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Push("buffet")
	clock.Advance(window - time.Millisecond)
	settle()
	assert.Empty(t, rec.get())

	v, ok := d.Pending()
	assert.True(t, ok)
	assert.Equal(t, "buffet", v)

	clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)

	_, ok = d.Pending()
	assert.False(t, ok)
}

func TestShortValueCancelsPending(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Push("bu")
	clock.Advance(100 * time.Millisecond)
	d.Push("b")
	clock.Advance(time.Second)
	settle()

	assert.Empty(t, rec.get())
	_, ok := d.Pending()
	assert.False(t, ok)
}

func TestShortValueNeverEmits(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Push("b")
	clock.Advance(10 * time.Second)
	settle()
	assert.Empty(t, rec.get())
}

func TestCancel(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Push("dragon")
	d.Cancel()
	clock.Advance(time.Second)
	settle()
	assert.Empty(t, rec.get())
}

func TestSeparateSettlesEmitSeparately(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Push("dr")
	clock.Advance(window)
	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)

	d.Push("dragon")
	clock.Advance(window)
	require.Eventually(t, func() bool { return len(rec.get()) == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"dr", "dragon"}, rec.get())
}

func TestStaleFireIsIgnored(t *testing.T) {
	d, _, rec := newTestDebouncer()

	d.Push("dragon")
	d.mu.Lock()
	stale := d.gen
	d.mu.Unlock()

	d.Push("dragons")
	d.fire(stale)

	assert.Empty(t, rec.get())
	v, ok := d.Pending()
	assert.True(t, ok)
	assert.Equal(t, "dragons", v)
}
