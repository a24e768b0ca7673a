package trajectory

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Trajectory is an ordered run of 2D points sharing one identifier.
// The identifier is not globally unique; a source may yield several
// trajectories under the same id (eg. non-contiguous runs in a point
// stream), and each is its own Trajectory value.
// Geometry is an orb.LineString in input order.
type Trajectory struct {
	ID       int
	Geometry orb.LineString
}

// New creates a Trajectory with an empty, non-nil geometry.
func New(id int) *Trajectory {
	return &Trajectory{
		ID:       id,
		Geometry: orb.LineString{},
	}
}

func (t *Trajectory) AddPoint(x, y float64) {
	t.Geometry = append(t.Geometry, orb.Point{x, y})
}

func (t *Trajectory) NumPoints() int {
	if t == nil {
		return 0
	}
	return len(t.Geometry)
}

// IsEmpty is useful for dealing with zero-value trajectories.
func (t *Trajectory) IsEmpty() bool {
	return t == nil || len(t.Geometry) == 0
}

func (t *Trajectory) Bound() orb.Bound {
	return t.Geometry.Bound()
}

// Validate checks basic trajectory sanity.
// It returns the first error it encounters.
func (t *Trajectory) Validate() error {
	if t == nil {
		return fmt.Errorf("nil trajectory")
	}
	if len(t.Geometry) == 0 {
		return fmt.Errorf("empty geometry")
	}
	for i, pt := range t.Geometry {
		if math.IsNaN(pt[0]) || math.IsNaN(pt[1]) {
			return fmt.Errorf("point %d: NaN coordinate", i)
		}
		if math.IsInf(pt[0], 0) || math.IsInf(pt[1], 0) {
			return fmt.Errorf("point %d: infinite coordinate", i)
		}
	}
	return nil
}

// Feature converts the trajectory to a GeoJSON feature with an "id"
// property, which is the interchange shape used by the convert and
// load commands and the store.
func (t *Trajectory) Feature() *geojson.Feature {
	f := geojson.NewFeature(t.Geometry)
	f.Properties["id"] = t.ID
	return f
}

// FromFeature builds a Trajectory from a GeoJSON feature.
// The feature must have LineString geometry and an integer-valued
// "id" property (JSON decoding may have made it a float64).
func FromFeature(f *geojson.Feature) (*Trajectory, error) {
	ls, ok := f.Geometry.(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("feature geometry is %s, want LineString", f.Geometry.GeoJSONType())
	}
	id, err := featureID(f)
	if err != nil {
		return nil, err
	}
	return &Trajectory{ID: id, Geometry: ls}, nil
}

func featureID(f *geojson.Feature) (int, error) {
	v, ok := f.Properties["id"]
	if !ok {
		return 0, fmt.Errorf("feature missing 'id' property")
	}
	switch id := v.(type) {
	case int:
		return id, nil
	case int64:
		return int(id), nil
	case float64:
		if id != math.Trunc(id) {
			return 0, fmt.Errorf("property 'id' not an integer: %v", id)
		}
		return int(id), nil
	}
	return 0, fmt.Errorf("property 'id' not a number: %v", v)
}

func (t *Trajectory) String() string {
	return fmt.Sprintf("trajectory id=%d points=%d", t.ID, len(t.Geometry))
}
