// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coordinator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/buffet-search/internal/cache"
	"github.com/pdiddy/buffet-search/pkg/types"
)

func bundle(q string, names ...string) types.ResultBundle {
	b := types.ResultBundle{Query: q}
	for i, n := range names {
		b.Results = append(b.Results, types.Place{ID: q + "-" + string(rune('a'+i)), Name: n})
	}
	return b.Normalized()
}

func newTestCoordinator(t *testing.T) (*Coordinator[types.ResultBundle], *cache.Cache[types.ResultBundle], *atomic.Int32) {
	t.Helper()
	c := cache.NewResultCache(clockwork.NewFakeClock())
	var published atomic.Int32
	co := New(c, types.EmptyResults(), WithName("test"), WithNotify(func() { published.Add(1) }))
	t.Cleanup(func() {
		co.Close()
		co.Wait()
	})
	return co, c, &published
}

// immediate returns a loader that answers at once.
func immediate(b types.ResultBundle) Loader[types.ResultBundle] {
	return func(context.Context) (types.ResultBundle, error) { return b, nil }
}

// gated returns a loader that answers only after release is closed and
// ignores cancellation, like a response that was already on the wire.
func gated(b types.ResultBundle, release <-chan struct{}) Loader[types.ResultBundle] {
	return func(context.Context) (types.ResultBundle, error) {
		<-release
		return b, nil
	}
}

// abortable returns a loader that answers after release or fails with the
// context error when aborted first.
func abortable(b types.ResultBundle, release <-chan struct{}) Loader[types.ResultBundle] {
	return func(ctx context.Context) (types.ResultBundle, error) {
		select {
		case <-release:
			return b, nil
		case <-ctx.Done():
			return types.ResultBundle{}, ctx.Err()
		}
	}
}

func TestFetchPublishesResult(t *testing.T) {
	co, c, published := newTestCoordinator(t)

	tok := co.Fetch(context.Background(), "k", immediate(bundle("dragon", "Golden Dragon Buffet")))
	co.Wait()

	v := co.View()
	assert.Equal(t, tok, v.Token)
	assert.Equal(t, StatusReady, v.Status)
	assert.Equal(t, "Golden Dragon Buffet", v.Payload.Results[0].Name)
	assert.Equal(t, int32(1), published.Load(), "exactly one publication per fetch")

	_, ok := c.Get("k")
	assert.True(t, ok, "successful response should be cached")
}

func TestFetchMarksPending(t *testing.T) {
	co, _, _ := newTestCoordinator(t)
	release := make(chan struct{})
	defer close(release)

	tok := co.Fetch(context.Background(), "k", gated(bundle("k"), release))

	v := co.View()
	assert.Equal(t, tok, v.Token)
	assert.Equal(t, StatusPending, v.Status)
	assert.NotNil(t, v.Payload.Results)
}

func TestTokensIncrease(t *testing.T) {
	co, _, _ := newTestCoordinator(t)

	t1 := co.Fetch(context.Background(), "a", immediate(bundle("a")))
	t2 := co.Fetch(context.Background(), "b", immediate(bundle("b")))
	co.Wait()

	assert.Greater(t, t2, t1)
	assert.Equal(t, t2, co.Latest())
}

func TestSlowEarlierResponseIsDiscarded(t *testing.T) {
	co, c, published := newTestCoordinator(t)
	releaseA := make(chan struct{})

	// A is slow and ignores the abort, so only the token check can stop it.
	co.Fetch(context.Background(), "a", gated(bundle("a", "Buffet A"), releaseA))
	tokB := co.Fetch(context.Background(), "ab", immediate(bundle("ab", "Buffet AB")))

	require.Eventually(t, func() bool { return co.View().Status == StatusReady }, time.Second, time.Millisecond)

	close(releaseA)
	co.Wait()

	v := co.View()
	assert.Equal(t, tokB, v.Token)
	assert.Equal(t, "ab", v.Key)
	assert.Equal(t, "Buffet AB", v.Payload.Results[0].Name)
	assert.Equal(t, int32(1), published.Load(), "the stale response must not publish")

	cached, ok := c.Get("a")
	require.True(t, ok, "a superseded success is still cached under its own key")
	assert.Equal(t, "Buffet A", cached.Results[0].Name)
}

func TestSupersededRequestIsAborted(t *testing.T) {
	co, c, published := newTestCoordinator(t)
	releaseA := make(chan struct{})
	defer close(releaseA)

	co.Fetch(context.Background(), "a", abortable(bundle("a", "Buffet A"), releaseA))
	tokB := co.Fetch(context.Background(), "ab", immediate(bundle("ab", "Buffet AB")))
	co.Wait()

	v := co.View()
	assert.Equal(t, tokB, v.Token)
	assert.Equal(t, "Buffet AB", v.Payload.Results[0].Name)
	assert.Equal(t, int32(1), published.Load())

	_, ok := c.Get("a")
	assert.False(t, ok, "aborted request has nothing to cache")
}

func TestFailurePublishesEmpty(t *testing.T) {
	co, c, published := newTestCoordinator(t)

	co.Fetch(context.Background(), "k", func(context.Context) (types.ResultBundle, error) {
		return types.ResultBundle{}, errors.New("connection refused")
	})
	co.Wait()

	v := co.View()
	assert.Equal(t, StatusFailed, v.Status)
	assert.Empty(t, v.Payload.Results)
	assert.NotNil(t, v.Payload.Cities, "failed view still carries empty lists")
	assert.Equal(t, int32(1), published.Load())

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestStaleFailureIsDiscarded(t *testing.T) {
	co, _, published := newTestCoordinator(t)
	releaseA := make(chan struct{})

	co.Fetch(context.Background(), "a", func(context.Context) (types.ResultBundle, error) {
		<-releaseA
		return types.ResultBundle{}, errors.New("HTTP 500")
	})
	co.Fetch(context.Background(), "ab", immediate(bundle("ab", "Buffet AB")))
	require.Eventually(t, func() bool { return co.View().Status == StatusReady }, time.Second, time.Millisecond)

	close(releaseA)
	co.Wait()

	assert.Equal(t, StatusReady, co.View().Status)
	assert.Equal(t, int32(1), published.Load())
}

func TestResolveServesFromCache(t *testing.T) {
	co, c, published := newTestCoordinator(t)
	c.Set("k", bundle("k", "Cached Buffet"))

	var calls atomic.Int32
	tok, hit := co.Resolve(context.Background(), "k", func(context.Context) (types.ResultBundle, error) {
		calls.Add(1)
		return types.ResultBundle{}, nil
	})
	co.Wait()

	assert.True(t, hit)
	assert.Zero(t, calls.Load())
	v := co.View()
	assert.Equal(t, tok, v.Token)
	assert.True(t, v.Cached)
	assert.Equal(t, "Cached Buffet", v.Payload.Results[0].Name)
	assert.Zero(t, published.Load(), "synchronous hits are not notified")
}

func TestResolveHitSupersedesInFlight(t *testing.T) {
	co, c, _ := newTestCoordinator(t)
	c.Set("b", bundle("b", "Buffet B"))
	releaseA := make(chan struct{})

	co.Fetch(context.Background(), "a", gated(bundle("a", "Buffet A"), releaseA))
	co.Resolve(context.Background(), "b", immediate(bundle("b")))

	close(releaseA)
	co.Wait()

	v := co.View()
	assert.Equal(t, "b", v.Key)
	assert.Equal(t, "Buffet B", v.Payload.Results[0].Name)
}

func TestResolveReusesInFlightRequestForSameKey(t *testing.T) {
	co, _, published := newTestCoordinator(t)
	release := make(chan struct{})

	var calls atomic.Int32
	load := func(context.Context) (types.ResultBundle, error) {
		calls.Add(1)
		<-release
		return bundle("k", "Buffet"), nil
	}

	t1, _ := co.Resolve(context.Background(), "k", load)
	t2, _ := co.Resolve(context.Background(), "k", load)
	close(release)
	co.Wait()

	assert.Equal(t, t1, t2)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(1), published.Load())
}

func TestResetClearsView(t *testing.T) {
	co, _, published := newTestCoordinator(t)
	release := make(chan struct{})

	co.Fetch(context.Background(), "k", gated(bundle("k", "Buffet"), release))
	co.Reset()
	close(release)
	co.Wait()

	v := co.View()
	assert.Equal(t, StatusIdle, v.Status)
	assert.Empty(t, v.Key)
	assert.Zero(t, published.Load())
}

func TestCloseSuppressesCompletion(t *testing.T) {
	co, _, published := newTestCoordinator(t)
	release := make(chan struct{})

	co.Fetch(context.Background(), "k", gated(bundle("k", "Buffet"), release))
	co.Close()
	close(release)
	co.Wait()

	assert.Equal(t, StatusPending, co.View().Status, "view is frozen after teardown")
	assert.Zero(t, published.Load())
	assert.Zero(t, co.Fetch(context.Background(), "k2", immediate(bundle("k2"))))
}

func TestParentCancellationIsSilent(t *testing.T) {
	co, _, published := newTestCoordinator(t)
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	defer close(release)

	co.Fetch(ctx, "k", abortable(bundle("k"), release))
	cancel()
	co.Wait()

	assert.Equal(t, StatusPending, co.View().Status)
	assert.Zero(t, published.Load())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "ready", StatusReady.String())
	assert.Equal(t, "failed", StatusFailed.String())
}
