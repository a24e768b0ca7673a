package reader

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/rotblauer/trajio/common"
	"github.com/rotblauer/trajio/params"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	target := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(target, []byte(content), 0660); err != nil {
		t.Fatal(err)
	}
	return target
}

func TestPointReaderAssembly(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	path := writeFixture(t, "points.csv", "id,x,y\n1,0,0\n1,1,1\n2,5,5\n")
	r, err := NewPointReader(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if !r.HasNext() {
		t.Fatal("HasNext false at start")
	}
	first, err := r.ReadNext()
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != 1 {
		t.Errorf("first.ID = %d, want 1", first.ID)
	}
	if len(first.Geometry) != 2 ||
		first.Geometry[0] != (orb.Point{0, 0}) ||
		first.Geometry[1] != (orb.Point{1, 1}) {
		t.Errorf("first geometry = %v", first.Geometry)
	}

	// The file is drained, but the lookahead record that detected the
	// boundary is parked; HasNext must still report true.
	if !r.HasNext() {
		t.Fatal("HasNext false with pending record")
	}
	second, err := r.ReadNext()
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != 2 {
		t.Errorf("second.ID = %d, want 2", second.ID)
	}
	if len(second.Geometry) != 1 || second.Geometry[0] != (orb.Point{5, 5}) {
		t.Errorf("second geometry = %v", second.Geometry)
	}

	if r.HasNext() {
		t.Error("HasNext true after exhaustion")
	}
	if _, err := r.ReadNext(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("want ErrExhausted, got %v", err)
	}
}

func TestPointReaderSingleRow(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	path := writeFixture(t, "points.csv", "id,x,y\n9,3,4\n")
	r, err := NewPointReader(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	tr, err := r.ReadNext()
	if err != nil {
		t.Fatal(err)
	}
	if tr.ID != 9 || len(tr.Geometry) != 1 || tr.Geometry[0] != (orb.Point{3, 4}) {
		t.Fatalf("unexpected trajectory: %+v", tr)
	}
	if r.HasNext() {
		t.Error("HasNext true after single row")
	}
}

// Same id in two non-contiguous runs: two separate trajectories, no
// merging. Changing this changes trajectory semantics downstream.
func TestPointReaderNonContiguousRuns(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	path := writeFixture(t, "points.csv", "id,x,y\n1,0,0\n2,5,5\n1,9,9\n")
	r, err := NewPointReader(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	trajs, err := ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(trajs) != 3 {
		t.Fatalf("got %d trajectories, want 3", len(trajs))
	}
	wantIDs := []int{1, 2, 1}
	for i, tr := range trajs {
		if tr.ID != wantIDs[i] {
			t.Errorf("trajs[%d].ID = %d, want %d", i, tr.ID, wantIDs[i])
		}
		if len(tr.Geometry) != 1 {
			t.Errorf("trajs[%d] has %d points, want 1", i, len(tr.Geometry))
		}
	}
}

// The union of emitted points must equal the input, in order.
func TestPointReaderPreservesAllPoints(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	path := writeFixture(t, "points.csv",
		"id,x,y\n1,0,0\n1,1,0\n1,2,0\n7,3,0\n7,4,0\n3,5,0\n")
	r, err := NewPointReader(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	trajs, err := ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	var xs []float64
	for _, tr := range trajs {
		for _, pt := range tr.Geometry {
			xs = append(xs, pt[0])
		}
	}
	if len(xs) != 6 {
		t.Fatalf("got %d points, want 6", len(xs))
	}
	for i, x := range xs {
		if x != float64(i) {
			t.Fatalf("point order broken at %d: %v", i, xs)
		}
	}
}

func TestPointReaderTemporal(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	path := writeFixture(t, "points.csv",
		"id,x,y,timestamp\n1,0,0,100\n1,1,1,101\n2,5,5,200\n")
	r, err := NewPointReader(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if !r.HasTimestamps() {
		t.Fatal("want timestamps")
	}
	trajs, err := ReadAllTemporal(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(trajs) != 2 {
		t.Fatalf("got %d trajectories, want 2", len(trajs))
	}
	for i, tr := range trajs {
		if len(tr.Timestamps) != len(tr.Geometry) {
			t.Errorf("trajs[%d]: %d timestamps for %d points", i, len(tr.Timestamps), len(tr.Geometry))
		}
	}
	if trajs[0].Timestamps[1] != 101 {
		t.Errorf("Timestamps[1] = %v, want 101", trajs[0].Timestamps[1])
	}
}

func TestPointReaderNoTimeColumn(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	path := writeFixture(t, "points.csv", "id,x,y\n1,0,0\n1,1,1\n")
	r, err := NewPointReader(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.HasTimestamps() {
		t.Fatal("no time column expected")
	}
	tr, err := r.ReadNextTemporal()
	if err != nil {
		t.Fatal(err)
	}
	// Empty, never partially filled.
	if len(tr.Timestamps) != 0 {
		t.Fatalf("Timestamps = %v, want empty", tr.Timestamps)
	}
	if len(tr.Geometry) != 2 {
		t.Fatalf("geometry = %v", tr.Geometry)
	}
}

func TestPointReaderReset(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	path := writeFixture(t, "points.csv", "id,x,y\n1,0,0\n1,1,1\n2,5,5\n3,6,6\n")
	r, err := NewPointReader(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	first, err := ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	// Reset mid-assembly state too: read one, then reset.
	if err := r.Reset(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadNext(); err != nil {
		t.Fatal(err)
	}
	if err := r.Reset(); err != nil {
		t.Fatal(err)
	}

	second, err := ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("drain lengths differ: %d != %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || len(first[i].Geometry) != len(second[i].Geometry) {
			t.Fatalf("drains differ at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestPointReaderMissingColumn(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	path := writeFixture(t, "points.csv", "id,y\n1,0\n")
	_, err := NewPointReader(path, nil)
	if err == nil {
		t.Fatal("want setup error for missing x column")
	}
	setupErr := &SetupError{}
	if !errors.As(err, &setupErr) {
		t.Fatalf("want SetupError, got %T: %v", err, err)
	}
}

func TestPointReaderMalformedField(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	path := writeFixture(t, "points.csv", "id,x,y\n1,abc,0\n2,5,5\n")
	r, err := NewPointReader(path, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = r.ReadNext()
	fieldErr := &FieldError{}
	if !errors.As(err, &fieldErr) {
		t.Fatalf("want FieldError, got %T: %v", err, err)
	}
	if fieldErr.Column != "x" || fieldErr.Line != 2 {
		t.Errorf("FieldError = %+v, want column x line 2", fieldErr)
	}

	// The reader stays usable past the bad record, and closable.
	tr, err := r.ReadNext()
	if err != nil {
		t.Fatal(err)
	}
	if tr.ID != 2 {
		t.Errorf("ID = %d, want 2", tr.ID)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadNext(); !errors.Is(err, ErrClosed) {
		t.Fatalf("want ErrClosed, got %v", err)
	}
}

func TestPointReaderCustomColumns(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	path := writeFixture(t, "points.csv", "lon;lat;track\n-113.99;46.87;5\n")
	r, err := NewPointReader(path, &params.PointConfig{
		Delimiter: ';',
		ID:        "track",
		X:         "lon",
		Y:         "lat",
		Time:      "timestamp",
	})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	tr, err := r.ReadNext()
	if err != nil {
		t.Fatal(err)
	}
	if tr.ID != 5 || tr.Geometry[0] != (orb.Point{-113.99, 46.87}) {
		t.Fatalf("unexpected trajectory: %+v", tr)
	}
}
