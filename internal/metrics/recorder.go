package metrics

import "time"

// BuildOutcome enumerates final build states for counters.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// Recorder defines observability hooks for builds, card rendering and tag
// rewriting. Implementations may forward to Prometheus; NoopRecorder is the
// default when metrics are not configured.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcome)
	IncPages(n int)
	IncCardRender(layout string)
	ObserveRenderDuration(layout string, d time.Duration)
	IncCacheResult(hit bool)
	IncRewrite(plugin string)
	IncExcluded()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)          {}
func (NoopRecorder) IncBuildOutcome(BuildOutcome)                {}
func (NoopRecorder) IncPages(int)                                {}
func (NoopRecorder) IncCardRender(string)                        {}
func (NoopRecorder) ObserveRenderDuration(string, time.Duration) {}
func (NoopRecorder) IncCacheResult(bool)                         {}
func (NoopRecorder) IncRewrite(string)                           {}
func (NoopRecorder) IncExcluded()                                {}
