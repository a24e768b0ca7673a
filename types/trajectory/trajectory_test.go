package trajectory

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestTrajectoryAddPoint(t *testing.T) {
	tr := New(7)
	tr.AddPoint(1, 2)
	tr.AddPoint(3, 4)
	if tr.NumPoints() != 2 {
		t.Fatalf("NumPoints = %d, want 2", tr.NumPoints())
	}
	if tr.Geometry[0] != (orb.Point{1, 2}) || tr.Geometry[1] != (orb.Point{3, 4}) {
		t.Fatalf("unexpected geometry: %v", tr.Geometry)
	}
	if err := tr.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestTrajectoryValidateEmpty(t *testing.T) {
	tr := New(1)
	if err := tr.Validate(); err == nil {
		t.Fatal("empty trajectory should not validate")
	}
}

func TestFeatureRoundtrip(t *testing.T) {
	tr := New(42)
	tr.AddPoint(0, 0)
	tr.AddPoint(1, 1)

	f := tr.Feature()
	data, err := f.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := geojson.UnmarshalFeature(data)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromFeature(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if back.ID != 42 {
		t.Errorf("ID = %d, want 42", back.ID)
	}
	if back.NumPoints() != 2 {
		t.Errorf("NumPoints = %d, want 2", back.NumPoints())
	}
}

func TestFromFeatureErrors(t *testing.T) {
	f := geojson.NewFeature(orb.Point{1, 2})
	f.Properties["id"] = 1
	if _, err := FromFeature(f); err == nil {
		t.Error("point geometry should fail")
	}

	f = geojson.NewFeature(orb.LineString{{0, 0}, {1, 1}})
	if _, err := FromFeature(f); err == nil {
		t.Error("missing id should fail")
	}

	f.Properties["id"] = 1.5
	if _, err := FromFeature(f); err == nil {
		t.Error("fractional id should fail")
	}
}

func TestTemporalRoundtrip(t *testing.T) {
	tr := NewTemporal(3)
	tr.AddTimedPoint(0, 0, 10)
	tr.AddTimedPoint(1, 1, 20)
	if !tr.HasTimestamps() {
		t.Fatal("want timestamps")
	}
	if tr.Duration() != 10 {
		t.Fatalf("Duration = %v, want 10", tr.Duration())
	}
	if err := tr.Validate(); err != nil {
		t.Fatal(err)
	}

	data, err := tr.Feature().MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := geojson.UnmarshalFeature(data)
	if err != nil {
		t.Fatal(err)
	}
	back, err := TemporalFromFeature(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if back.ID != 3 || back.NumPoints() != 2 || len(back.Timestamps) != 2 {
		t.Fatalf("unexpected roundtrip: %+v", back)
	}
	if back.Timestamps[1] != 20 {
		t.Errorf("Timestamps[1] = %v, want 20", back.Timestamps[1])
	}
}

func TestTemporalValidateMismatch(t *testing.T) {
	tr := NewTemporal(1)
	tr.AddPoint(0, 0)
	tr.AddPoint(1, 1)
	tr.Timestamps = []float64{5}
	if err := tr.Validate(); err == nil {
		t.Fatal("timestamp/point mismatch should not validate")
	}
}

func TestTemporalWithoutTimes(t *testing.T) {
	tr := NewTemporal(1)
	tr.AddPoint(0, 0)
	if tr.HasTimestamps() {
		t.Error("no timestamps expected")
	}
	if err := tr.Validate(); err != nil {
		t.Fatal(err)
	}
	f := tr.Feature()
	if _, ok := f.Properties["times"]; ok {
		t.Error("times property should be omitted")
	}
}
