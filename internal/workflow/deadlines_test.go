// internal/workflow/deadlines_test.go
package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeadlineComputation(t *testing.T) {
	tracker := NewDeadlineTracker(time.Hour, 10*time.Minute)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(time.Hour), tracker.ComputeReleaseDeadline(now))
	assert.Equal(t, now.Add(10*time.Minute), tracker.ComputeReturnDeadline(now))
}

func TestDeadlineNormalizesToUTC(t *testing.T) {
	tracker := NewDeadlineTracker(time.Hour, 10*time.Minute)
	loc := time.FixedZone("WAT", 3600)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, loc)

	deadline := tracker.ComputeReleaseDeadline(now)
	assert.Equal(t, time.UTC, deadline.Location())
	assert.True(t, deadline.Equal(now.Add(time.Hour)))
}

func TestIsLate(t *testing.T) {
	tracker := NewDeadlineTracker(time.Hour, 10*time.Minute)
	deadline := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.False(t, tracker.IsLate(deadline.Add(-time.Second), deadline))
	// Exactly at the deadline is still on time.
	assert.False(t, tracker.IsLate(deadline, deadline))
	assert.True(t, tracker.IsLate(deadline.Add(time.Second), deadline))
}
