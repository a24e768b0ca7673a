package reader

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rotblauer/trajio/flatfile"
	"github.com/rotblauer/trajio/params"
	"github.com/rotblauer/trajio/tabular"
	"github.com/rotblauer/trajio/types/trajectory"
)

// CSVTemporalReader is the whole-row reader with an optional time
// channel: a third column holding a comma-separated list of numeric
// timestamps, one per geometry point. A file without the time column
// still reads fine; ReadNextTemporal then yields empty timestamp
// sequences and HasTimestamps reports false.
type CSVTemporalReader struct {
	src    *flatfile.Reader
	schema tabular.Schema
	delim  byte
	closed bool
}

func NewCSVTemporalReader(path string, config *params.CSVConfig) (*CSVTemporalReader, error) {
	if config == nil {
		config = params.DefaultCSVConfig()
	}
	src, schema, err := openDelimited(path, config.Delimiter, []tabular.Field{
		{Role: tabular.RoleID, Name: config.ID},
		{Role: tabular.RoleGeom, Name: config.Geom},
		{Role: tabular.RoleTime, Name: config.Time, Optional: true},
	})
	if err != nil {
		return nil, err
	}
	if !schema.Has(tabular.RoleTime) {
		slog.Warn("Time column not found, timestamps must be estimated downstream",
			"path", path, "column", config.Time)
	}
	slog.Info("Reading temporal trajectories", "path", path,
		"id.index", schema.Index(tabular.RoleID),
		"geom.index", schema.Index(tabular.RoleGeom),
		"time.index", schema.Index(tabular.RoleTime))
	return &CSVTemporalReader{src: src, schema: schema, delim: config.Delimiter}, nil
}

// HasTimestamps reports whether the time column resolved. Static per
// file; when false, timestamp sequences are always empty.
func (r *CSVTemporalReader) HasTimestamps() bool {
	return r.schema.Has(tabular.RoleTime)
}

func (r *CSVTemporalReader) HasNext() bool {
	return !r.closed && r.src.Peek()
}

func (r *CSVTemporalReader) ReadNext() (*trajectory.Trajectory, error) {
	fields, err := r.nextRow()
	if err != nil {
		return nil, err
	}
	return rowTrajectory(fields, r.schema, r.src.LineN())
}

func (r *CSVTemporalReader) ReadNextTemporal() (*trajectory.TemporalTrajectory, error) {
	fields, err := r.nextRow()
	if err != nil {
		return nil, err
	}
	lineN := r.src.LineN()
	t, err := rowTrajectory(fields, r.schema, lineN)
	if err != nil {
		return nil, err
	}
	tt := &trajectory.TemporalTrajectory{Trajectory: *t, Timestamps: []float64{}}
	if !r.HasTimestamps() {
		return tt, nil
	}
	raw, err := fieldAt(fields, r.schema, tabular.RoleTime, lineN)
	if err != nil {
		return nil, err
	}
	times, err := parseTimeList(raw)
	if err != nil {
		return nil, &FieldError{Line: lineN, Column: string(tabular.RoleTime), Value: raw, Err: err}
	}
	if len(times) != len(tt.Geometry) {
		return nil, &FieldError{Line: lineN, Column: string(tabular.RoleTime), Value: raw,
			Err: fmt.Errorf("%d timestamps for %d points", len(times), len(tt.Geometry))}
	}
	tt.Timestamps = times
	return tt, nil
}

func (r *CSVTemporalReader) nextRow() ([]string, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if !r.src.Peek() {
		return nil, ErrExhausted
	}
	line, err := r.src.ReadLine()
	if err != nil {
		return nil, err
	}
	return tabular.Split(line, r.delim), nil
}

func (r *CSVTemporalReader) Reset() error {
	if r.closed {
		return ErrClosed
	}
	return resetPastHeader(r.src)
}

func (r *CSVTemporalReader) Close() error {
	r.closed = true
	return r.src.Close()
}

// parseTimeList parses a comma-separated numeric list. The list
// separator is always a comma, regardless of the field delimiter.
// Empty entries are skipped.
func parseTimeList(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	times := make([]float64, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		times = append(times, v)
	}
	return times, nil
}
