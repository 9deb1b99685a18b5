package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoop_SerializesWork(t *testing.T) {
	l := New(nil, 4)
	go l.Run(t.Context())
	defer l.Close()

	var order []int
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// No lock around order: the loop goroutine is the only writer.
			assert.NoError(t, l.Do(t.Context(), func() { order = append(order, i) }))
		}()
	}
	wg.Wait()

	var n int
	require.NoError(t, l.Do(t.Context(), func() { n = len(order) }))
	assert.Equal(t, 50, n)
}

func TestLoop_CloseRejectsWork(t *testing.T) {
	l := New(nil, 1)
	go l.Run(t.Context())

	ran := false
	require.NoError(t, l.Do(t.Context(), func() { ran = true }))
	assert.True(t, ran)

	l.Close()
	<-l.Done()
	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Do(t.Context(), func() {}), ErrClosed)
}

func TestLoop_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	l := New(nil, 1)
	go l.Run(ctx)
	cancel()

	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancel")
	}
	assert.False(t, l.Post(func() {}))
}

func TestLoop_AfterFuncRunsOnLoop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(clock, 4)
	go l.Run(t.Context())
	defer l.Close()

	fired := make(chan struct{})
	timer := l.AfterFunc(500*time.Millisecond, func() { close(fired) })
	require.NotNil(t, timer)

	require.NoError(t, clock.BlockUntilContext(t.Context(), 1))
	clock.Advance(500 * time.Millisecond)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("deferred action did not run")
	}
}

func TestLoop_AfterFuncStop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(clock, 4)
	go l.Run(t.Context())
	defer l.Close()

	timer := l.AfterFunc(time.Second, func() { t.Error("stopped action ran") })
	assert.True(t, timer.Stop())
	clock.Advance(2 * time.Second)

	// Round-trip through the loop so any stray post would have executed.
	require.NoError(t, l.Do(t.Context(), func() {}))
}

func TestManual_RunsInDeadlineOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(100*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(200 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, m.Pending())

	m.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 300*time.Millisecond, m.Now())
}

func TestManual_ChainedActionsWithinWindow(t *testing.T) {
	m := NewManual()
	count := 0
	var tick func()
	tick = func() {
		count++
		m.AfterFunc(time.Second, tick)
	}
	m.AfterFunc(time.Second, tick)

	m.Advance(3500 * time.Millisecond)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, m.Pending())
}

func TestManual_Stop(t *testing.T) {
	m := NewManual()
	timer := m.AfterFunc(time.Second, func() { t.Error("stopped timer fired") })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	m.Advance(2 * time.Second)
	assert.Equal(t, 0, m.Pending())
}
