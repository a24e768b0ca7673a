package stream

import (
	"context"

	"github.com/rotblauer/trajio/reader"
	"github.com/rotblauer/trajio/types/trajectory"
)

// Trajectories bridges the pull-based reading contract into a
// channel. It returns a trajectory channel and an error channel; only
// non-nil errors are sent, and a read error ends the stream. The
// reader is not closed; that stays with the caller.
func Trajectories(ctx context.Context, r reader.Reader) (<-chan *trajectory.Trajectory, <-chan error) {
	out := make(chan *trajectory.Trajectory)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		for r.HasNext() {
			t, err := r.ReadNext()
			if err != nil {
				errs <- err
				return
			}
			select {
			case <-ctx.Done():
				return
			case out <- t:
			}
		}
	}()
	return out, errs
}

// TemporalTrajectories is Trajectories with the time channel.
func TemporalTrajectories(ctx context.Context, r reader.Reader) (<-chan *trajectory.TemporalTrajectory, <-chan error) {
	out := make(chan *trajectory.TemporalTrajectory)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		for r.HasNext() {
			t, err := r.ReadNextTemporal()
			if err != nil {
				errs <- err
				return
			}
			select {
			case <-ctx.Done():
				return
			case out <- t:
			}
		}
	}()
	return out, errs
}
