// Package reader exposes trajectory sources — GeoJSON vector
// datasets, whole-row delimited files, and per-point delimited
// streams — through one pull-based reading contract, so downstream
// consumers (map matching, trajectory analysis) never care which
// shape the input took.
package reader

import (
	"github.com/rotblauer/trajio/types/trajectory"
)

// Reader is the uniform trajectory reading contract.
//
// Implementations are single-threaded: callers wanting concurrency
// must serialize access themselves. HasNext reports whether more
// source records remain; for the point-stream reader that means point
// records (a held-back lookahead record counts), not whole
// trajectories. Reading past exhaustion fails with ErrExhausted;
// reading after Close fails with ErrClosed.
type Reader interface {
	HasNext() bool
	ReadNext() (*trajectory.Trajectory, error)
	// ReadNextTemporal reads the next trajectory with its timestamp
	// sequence. Sources without a time channel yield an empty
	// timestamp sequence; that is a state, not an error.
	ReadNextTemporal() (*trajectory.TemporalTrajectory, error)
	// Reset repositions to the first data record, skipping any
	// header. Not guaranteed cheap.
	Reset() error
	// Close releases the underlying source. Idempotent.
	Close() error
}

// ReadN reads up to n trajectories. A source exhausting early returns
// a shorter slice, never an error; real read failures propagate with
// whatever was collected before them.
func ReadN(r Reader, n int) ([]*trajectory.Trajectory, error) {
	out := make([]*trajectory.Trajectory, 0, n)
	for len(out) < n && r.HasNext() {
		t, err := r.ReadNext()
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ReadAll drains the source.
func ReadAll(r Reader) ([]*trajectory.Trajectory, error) {
	out := []*trajectory.Trajectory{}
	for r.HasNext() {
		t, err := r.ReadNext()
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ReadAllTemporal drains the source with timestamps.
func ReadAllTemporal(r Reader) ([]*trajectory.TemporalTrajectory, error) {
	out := []*trajectory.TemporalTrajectory{}
	for r.HasNext() {
		t, err := r.ReadNextTemporal()
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, nil
}
