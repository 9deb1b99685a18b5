package metrics

import "time"

// ResultLabel enumerates listing result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// Recorder defines observability hooks for listings, change notifications and
// player navigation. Implementations may forward to Prometheus or elsewhere.
type Recorder interface {
	ObserveListingDuration(category string, d time.Duration)
	IncListingResult(category string, result ResultLabel)
	IncChangeBroadcast(category string)
	SetStreamClients(n int)
	IncRateLimited()
	IncNavigation(op string)
	IncResample()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveListingDuration(string, time.Duration) {}
func (NoopRecorder) IncListingResult(string, ResultLabel)         {}
func (NoopRecorder) IncChangeBroadcast(string)                    {}
func (NoopRecorder) SetStreamClients(int)                         {}
func (NoopRecorder) IncRateLimited()                              {}
func (NoopRecorder) IncNavigation(string)                         {}
func (NoopRecorder) IncResample()                                 {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
