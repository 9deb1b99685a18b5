// Package eventloop provides the single-threaded event queue that owns a
// player session's state.
//
// All mutations of carousel and collage state are posted onto one Loop and
// executed in order on its goroutine, so the state machines themselves need no
// locking. Delayed work (settle windows, periodic ticks) is scheduled through a
// Deferrer whose callbacks are re-posted onto the same loop.
//
// Manual is a virtual-time Deferrer for tests: nothing fires until Advance is
// called, and callbacks run synchronously on the caller's goroutine.
package eventloop
