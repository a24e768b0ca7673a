package reader

import (
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/rotblauer/trajio/flatfile"
	"github.com/rotblauer/trajio/params"
	"github.com/rotblauer/trajio/tabular"
	"github.com/rotblauer/trajio/types/trajectory"
)

// PointReader assembles whole trajectories from delimited text where
// each row is one point: {id, x, y} plus an optional timestamp
// column. Consecutive rows sharing an id form one trajectory.
//
// The reader relies on — and does not enforce — all rows of one
// trajectory appearing as a contiguous run. It buffers exactly one
// row of lookahead, so a later, non-contiguous run under the same id
// is assembled as a separate trajectory with that id; runs are never
// merged. This is a contract, not an accident: merging would change
// trajectory semantics for every consumer.
//
// Boundary detection reads one row past the current run. That row is
// not lost: it parks in a one-slot pending buffer and is the first
// row consumed by the next read. End of input is itself a boundary;
// a run cut short by EOF comes back complete as-is.
type PointReader struct {
	src    *flatfile.Reader
	schema tabular.Schema
	delim  byte

	// pending holds the single row of lookahead that crossed a
	// trajectory boundary. Empty at open and after being drained.
	pending    string
	hasPending bool

	closed bool
}

func NewPointReader(path string, config *params.PointConfig) (*PointReader, error) {
	if config == nil {
		config = params.DefaultPointConfig()
	}
	src, schema, err := openDelimited(path, config.Delimiter, []tabular.Field{
		{Role: tabular.RoleID, Name: config.ID},
		{Role: tabular.RoleX, Name: config.X},
		{Role: tabular.RoleY, Name: config.Y},
		{Role: tabular.RoleTime, Name: config.Time, Optional: true},
	})
	if err != nil {
		return nil, err
	}
	if !schema.Has(tabular.RoleTime) {
		slog.Warn("Time column not found, timestamps must be estimated downstream",
			"path", path, "column", config.Time)
	}
	slog.Info("Reading point stream", "path", path,
		"id.index", schema.Index(tabular.RoleID),
		"x.index", schema.Index(tabular.RoleX),
		"y.index", schema.Index(tabular.RoleY),
		"time.index", schema.Index(tabular.RoleTime))
	return &PointReader{src: src, schema: schema, delim: config.Delimiter}, nil
}

// HasTimestamps reports whether the time column resolved. Static per
// file; when false, timestamp sequences are always empty.
func (r *PointReader) HasTimestamps() bool {
	return r.schema.Has(tabular.RoleTime)
}

// HasNext reports whether point records remain, counting a parked
// lookahead record even when the file itself is exhausted.
func (r *PointReader) HasNext() bool {
	return !r.closed && (r.hasPending || r.src.Peek())
}

func (r *PointReader) ReadNext() (*trajectory.Trajectory, error) {
	id, geom, _, err := r.assemble(false)
	if err != nil {
		return nil, err
	}
	return &trajectory.Trajectory{ID: id, Geometry: geom}, nil
}

func (r *PointReader) ReadNextTemporal() (*trajectory.TemporalTrajectory, error) {
	id, geom, times, err := r.assemble(r.HasTimestamps())
	if err != nil {
		return nil, err
	}
	return &trajectory.TemporalTrajectory{
		Trajectory: trajectory.Trajectory{ID: id, Geometry: geom},
		Timestamps: times,
	}, nil
}

type pointRecord struct {
	id   int
	x, y float64
	ts   float64
}

// assemble consumes the current contiguous id run, plus one record of
// lookahead when another run follows. The lookahead record parks in
// the pending buffer for the next call.
func (r *PointReader) assemble(collectTimes bool) (int, orb.LineString, []float64, error) {
	if r.closed {
		return 0, nil, nil, ErrClosed
	}
	if !r.HasNext() {
		return 0, nil, nil, ErrExhausted
	}
	var (
		prevID int
		geom   = orb.LineString{}
		times  = []float64{}
		first  = true
	)
	for r.hasPending || r.src.Peek() {
		line := r.pending
		if r.hasPending {
			r.pending, r.hasPending = "", false
		} else {
			var err error
			line, err = r.src.ReadLine()
			if err != nil {
				return 0, nil, nil, err
			}
		}
		rec, err := r.parseRecord(line)
		if err != nil {
			// The bad record is consumed; the reader stays usable.
			return 0, nil, nil, err
		}
		if !first && rec.id != prevID {
			// Boundary. The record belongs to the next trajectory.
			r.pending, r.hasPending = line, true
			break
		}
		geom = append(geom, orb.Point{rec.x, rec.y})
		if collectTimes {
			times = append(times, rec.ts)
		}
		prevID = rec.id
		first = false
	}
	return prevID, geom, times, nil
}

func (r *PointReader) parseRecord(line string) (pointRecord, error) {
	fields := tabular.Split(line, r.delim)
	lineN := r.src.LineN()
	rec := pointRecord{}
	var err error
	if rec.id, err = intAt(fields, r.schema, tabular.RoleID, lineN); err != nil {
		return rec, err
	}
	if rec.x, err = floatAt(fields, r.schema, tabular.RoleX, lineN); err != nil {
		return rec, err
	}
	if rec.y, err = floatAt(fields, r.schema, tabular.RoleY, lineN); err != nil {
		return rec, err
	}
	if r.schema.Has(tabular.RoleTime) {
		if rec.ts, err = floatAt(fields, r.schema, tabular.RoleTime, lineN); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// Reset drops any parked lookahead, repositions past the header, and
// starts assembly fresh.
func (r *PointReader) Reset() error {
	if r.closed {
		return ErrClosed
	}
	r.pending, r.hasPending = "", false
	return resetPastHeader(r.src)
}

func (r *PointReader) Close() error {
	r.closed = true
	r.pending, r.hasPending = "", false
	return r.src.Close()
}
