package reader

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/rotblauer/trajio/flatfile"
	"github.com/rotblauer/trajio/params"
	"github.com/rotblauer/trajio/tabular"
	"github.com/rotblauer/trajio/types/trajectory"
)

// CSVReader reads delimited text where each row is one whole
// trajectory: an integer id column and a WKT LINESTRING geometry
// column. The first line is the header.
type CSVReader struct {
	src    *flatfile.Reader
	schema tabular.Schema
	delim  byte
	closed bool
}

func NewCSVReader(path string, config *params.CSVConfig) (*CSVReader, error) {
	if config == nil {
		config = params.DefaultCSVConfig()
	}
	src, schema, err := openDelimited(path, config.Delimiter, []tabular.Field{
		{Role: tabular.RoleID, Name: config.ID},
		{Role: tabular.RoleGeom, Name: config.Geom},
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Reading trajectories", "path", path,
		"id.index", schema.Index(tabular.RoleID),
		"geom.index", schema.Index(tabular.RoleGeom))
	return &CSVReader{src: src, schema: schema, delim: config.Delimiter}, nil
}

func (r *CSVReader) HasNext() bool {
	return !r.closed && r.src.Peek()
}

func (r *CSVReader) ReadNext() (*trajectory.Trajectory, error) {
	fields, err := r.nextRow()
	if err != nil {
		return nil, err
	}
	return rowTrajectory(fields, r.schema, r.src.LineN())
}

func (r *CSVReader) ReadNextTemporal() (*trajectory.TemporalTrajectory, error) {
	t, err := r.ReadNext()
	if err != nil {
		return nil, err
	}
	return &trajectory.TemporalTrajectory{Trajectory: *t, Timestamps: []float64{}}, nil
}

func (r *CSVReader) nextRow() ([]string, error) {
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

func (r *CSVReader) Reset() error {
	if r.closed {
		return ErrClosed
	}
	return resetPastHeader(r.src)
}

func (r *CSVReader) Close() error {
	r.closed = true
	return r.src.Close()
}

// openDelimited opens path and resolves its header schema, wrapping
// either failure as a SetupError with the file closed behind it.
func openDelimited(path string, delim byte, fields []tabular.Field) (*flatfile.Reader, tabular.Schema, error) {
	src, err := flatfile.Open(path)
	if err != nil {
		return nil, nil, &SetupError{Source: path, Err: err}
	}
	header, err := src.ReadLine()
	if err != nil {
		src.Close()
		return nil, nil, &SetupError{Source: path, Err: fmt.Errorf("reading header: %w", err)}
	}
	schema, err := tabular.ResolveSchema(header, delim, fields)
	if err != nil {
		src.Close()
		return nil, nil, &SetupError{Source: path, Err: err}
	}
	return src, schema, nil
}

func resetPastHeader(src *flatfile.Reader) error {
	if err := src.Reset(); err != nil {
		return err
	}
	_, err := src.ReadLine()
	return err
}

// fieldAt extracts a schema-resolved field from a row, failing with a
// FieldError when the row is too short.
func fieldAt(fields []string, schema tabular.Schema, role tabular.Role, lineN int) (string, error) {
	idx := schema.Index(role)
	if idx >= len(fields) {
		return "", &FieldError{Line: lineN, Column: string(role),
			Err: fmt.Errorf("row has %d fields, column index %d out of range", len(fields), idx)}
	}
	return fields[idx], nil
}

func intAt(fields []string, schema tabular.Schema, role tabular.Role, lineN int) (int, error) {
	raw, err := fieldAt(fields, schema, role, lineN)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &FieldError{Line: lineN, Column: string(role), Value: raw, Err: err}
	}
	return v, nil
}

func floatAt(fields []string, schema tabular.Schema, role tabular.Role, lineN int) (float64, error) {
	raw, err := fieldAt(fields, schema, role, lineN)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &FieldError{Line: lineN, Column: string(role), Value: raw, Err: err}
	}
	return v, nil
}

func rowTrajectory(fields []string, schema tabular.Schema, lineN int) (*trajectory.Trajectory, error) {
	id, err := intAt(fields, schema, tabular.RoleID, lineN)
	if err != nil {
		return nil, err
	}
	raw, err := fieldAt(fields, schema, tabular.RoleGeom, lineN)
	if err != nil {
		return nil, err
	}
	geom, err := wkt.UnmarshalLineString(raw)
	if err != nil {
		return nil, &FieldError{Line: lineN, Column: string(tabular.RoleGeom), Value: raw, Err: err}
	}
	return &trajectory.Trajectory{ID: id, Geometry: geom}, nil
}
