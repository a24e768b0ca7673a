package reader

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/trajio/flatfile"
	"github.com/rotblauer/trajio/types/trajectory"
)

// GeoJSONReader reads a vector dataset: a GeoJSON FeatureCollection
// of LineString features carrying an integer "id" property. The
// collection is validated whole at construction — wrong geometry kind
// or a missing id property is a SetupError, not a per-record failure.
// Reads after that cannot fail on content.
type GeoJSONReader struct {
	path     string
	features []*geojson.Feature
	cursor   int
	closed   bool
}

func NewGeoJSONReader(path string) (*GeoJSONReader, error) {
	src, err := flatfile.Open(path)
	if err != nil {
		return nil, &SetupError{Source: path, Err: err}
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, &SetupError{Source: path, Err: err}
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &SetupError{Source: path, Err: err}
	}
	for i, f := range fc.Features {
		if _, ok := f.Geometry.(orb.LineString); !ok {
			return nil, &SetupError{Source: path, Err: fmt.Errorf(
				"feature %d: geometry type is %s, want LineString", i, f.Geometry.GeoJSONType())}
		}
		if _, err := trajectory.FromFeature(f); err != nil {
			return nil, &SetupError{Source: path, Err: fmt.Errorf("feature %d: %w", i, err)}
		}
	}
	slog.Info("Read trajectory dataset", "path", path,
		"trajectories", humanize.Comma(int64(len(fc.Features))))
	return &GeoJSONReader{path: path, features: fc.Features}, nil
}

// NumTrajectories returns the feature count of the dataset.
func (r *GeoJSONReader) NumTrajectories() int {
	return len(r.features)
}

func (r *GeoJSONReader) HasNext() bool {
	return !r.closed && r.cursor < len(r.features)
}

func (r *GeoJSONReader) ReadNext() (*trajectory.Trajectory, error) {
	f, err := r.next()
	if err != nil {
		return nil, err
	}
	return trajectory.FromFeature(f)
}

// ReadNextTemporal reads the next trajectory with timestamps from the
// optional "times" feature property.
func (r *GeoJSONReader) ReadNextTemporal() (*trajectory.TemporalTrajectory, error) {
	f, err := r.next()
	if err != nil {
		return nil, err
	}
	return trajectory.TemporalFromFeature(f)
}

func (r *GeoJSONReader) next() (*geojson.Feature, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if r.cursor >= len(r.features) {
		return nil, ErrExhausted
	}
	f := r.features[r.cursor]
	r.cursor++
	return f, nil
}

func (r *GeoJSONReader) Reset() error {
	if r.closed {
		return ErrClosed
	}
	r.cursor = 0
	return nil
}

// Close releases the materialized dataset. Idempotent.
func (r *GeoJSONReader) Close() error {
	r.closed = true
	r.features = nil
	return nil
}
