// Package carousel implements the rotation scheduler behind the hero carousel.
//
// The scheduler is a small state machine (Idle, Showing, Transitioning) that
// advances a current index on an autoplay timer and on manual navigation.
// Every index change first passes through a settle window so a cross-fade can
// finish. A newer navigation supersedes the pending one; a generation counter
// turns the superseded callback into a no-op.
//
// A Scheduler is not safe for concurrent use. Its owner serializes calls and
// timer callbacks onto one goroutine (see eventloop.Loop).
package carousel
