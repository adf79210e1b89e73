// internal/workflow/deadlines.go
package workflow

import "time"

// DeadlineTracker computes and evaluates the service-level windows attached
// to file release and file return. Evaluation is pull-based: lateness is
// checked when the dependent action happens or when a dashboard query runs,
// never by a background sweep.
type DeadlineTracker struct {
	ReleaseSLA time.Duration
	ReturnSLA  time.Duration
}

func NewDeadlineTracker(releaseSLA, returnSLA time.Duration) *DeadlineTracker {
	return &DeadlineTracker{
		ReleaseSLA: releaseSLA,
		ReturnSLA:  returnSLA,
	}
}

// ComputeReleaseDeadline fixes the release window at approval time.
func (t *DeadlineTracker) ComputeReleaseDeadline(now time.Time) time.Time {
	return now.UTC().Add(t.ReleaseSLA)
}

// ComputeReturnDeadline fixes the return window at receipt time.
func (t *DeadlineTracker) ComputeReturnDeadline(now time.Time) time.Time {
	return now.UTC().Add(t.ReturnSLA)
}

// IsLate reports whether the deadline had passed at the given instant. The
// result is recorded once on the stage record and never recomputed.
func (t *DeadlineTracker) IsLate(now time.Time, deadline time.Time) bool {
	return now.After(deadline)
}
