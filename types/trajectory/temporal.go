package trajectory

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// TemporalTrajectory is a Trajectory with a parallel per-point
// timestamp sequence. Timestamps are plain numbers (conventionally
// seconds); unit interpretation belongs to the caller.
// A source without a time channel yields an empty Timestamps slice,
// never a partially filled one.
type TemporalTrajectory struct {
	Trajectory
	Timestamps []float64
}

func NewTemporal(id int) *TemporalTrajectory {
	return &TemporalTrajectory{
		Trajectory: Trajectory{ID: id, Geometry: orb.LineString{}},
		Timestamps: []float64{},
	}
}

func (t *TemporalTrajectory) AddTimedPoint(x, y, ts float64) {
	t.AddPoint(x, y)
	t.Timestamps = append(t.Timestamps, ts)
}

// HasTimestamps reports whether a time channel was present.
func (t *TemporalTrajectory) HasTimestamps() bool {
	return t != nil && len(t.Timestamps) > 0
}

// Duration returns last-first timestamp, or 0 without timestamps.
func (t *TemporalTrajectory) Duration() float64 {
	if len(t.Timestamps) < 2 {
		return 0
	}
	return t.Timestamps[len(t.Timestamps)-1] - t.Timestamps[0]
}

// Validate checks the trajectory and, when timestamps are present,
// that the timestamp sequence is parallel to the geometry.
func (t *TemporalTrajectory) Validate() error {
	if err := t.Trajectory.Validate(); err != nil {
		return err
	}
	if len(t.Timestamps) > 0 && len(t.Timestamps) != len(t.Geometry) {
		return fmt.Errorf("timestamps/points mismatch: %d != %d",
			len(t.Timestamps), len(t.Geometry))
	}
	return nil
}

// Feature converts the trajectory to a GeoJSON feature with "id" and,
// when present, "times" properties.
func (t *TemporalTrajectory) Feature() *geojson.Feature {
	f := t.Trajectory.Feature()
	if t.HasTimestamps() {
		f.Properties["times"] = t.Timestamps
	}
	return f
}

// TemporalFromFeature builds a TemporalTrajectory from a GeoJSON
// feature, reading an optional "times" property.
func TemporalFromFeature(f *geojson.Feature) (*TemporalTrajectory, error) {
	base, err := FromFeature(f)
	if err != nil {
		return nil, err
	}
	tt := &TemporalTrajectory{Trajectory: *base, Timestamps: []float64{}}
	v, ok := f.Properties["times"]
	if !ok {
		return tt, nil
	}
	switch times := v.(type) {
	case []float64:
		tt.Timestamps = times
	case []interface{}:
		for i, e := range times {
			n, ok := e.(float64)
			if !ok {
				return nil, fmt.Errorf("property 'times'[%d] not a number: %v", i, e)
			}
			tt.Timestamps = append(tt.Timestamps, n)
		}
	default:
		return nil, fmt.Errorf("property 'times' not a list: %v", v)
	}
	if err := tt.Validate(); err != nil {
		return nil, err
	}
	return tt, nil
}
