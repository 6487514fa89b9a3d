package orchestration

import (
	"time"

	"github.com/agbru/numkernels/internal/format"
)

// ProgressAggregator turns per-slot updates into an overall fraction and an
// ETA. Both the CLI spinner and the REPL use it.
type ProgressAggregator struct {
	state    *format.ProgressWithETA
	numSlots int
}

// NewProgressAggregator returns nil if numSlots <= 0.
func NewProgressAggregator(numSlots int) *ProgressAggregator {
	if numSlots <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:    format.NewProgressWithETA(numSlots),
		numSlots: numSlots,
	}
}

// AggregatedProgress is the result of processing one update.
type AggregatedProgress struct {
	Index           int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// Update records one update and returns the aggregate.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.Index, update.Value)
	return AggregatedProgress{
		Index:           update.Index,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumSlots returns the number of tracked slots.
func (a *ProgressAggregator) NumSlots() int {
	return a.numSlots
}

// DrainChannel discards every update until the channel is closed.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
