package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// Role names a logical column a reader cares about, independent of
// where it sits in any particular file.
type Role string

const (
	RoleID   Role = "id"
	RoleX    Role = "x"
	RoleY    Role = "y"
	RoleGeom Role = "geom"
	RoleTime Role = "time"
)

// Absent marks an optional role whose column was not found.
const Absent = -1

// Field pairs a role with the column name expected to carry it.
// Optional fields resolve to Absent instead of failing.
type Field struct {
	Role     Role
	Name     string
	Optional bool
}

var ErrMissingColumn = errors.New("required column not found")

// Schema maps roles to zero-based column indices, resolved once from
// a header row and immutable afterward.
type Schema map[Role]int

// ResolveSchema tokenizes header and maps each field's role to the
// index of the first header token equal to the field's name.
// Matching is exact and case-sensitive. A required field with no
// matching token fails with ErrMissingColumn naming every miss; an
// optional one resolves to Absent.
func ResolveSchema(header string, delim byte, fields []Field) (Schema, error) {
	tokens := Split(header, delim)
	schema := make(Schema, len(fields))
	var missing []string
	for _, field := range fields {
		idx := Absent
		for i, tok := range tokens {
			if tok == field.Name {
				idx = i
				break
			}
		}
		if idx == Absent && !field.Optional {
			missing = append(missing, field.Name)
		}
		schema[field.Role] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return schema, nil
}

// Index returns the column index for role, or Absent.
func (s Schema) Index(role Role) int {
	idx, ok := s[role]
	if !ok {
		return Absent
	}
	return idx
}

// Has reports whether role resolved to a real column.
func (s Schema) Has(role Role) bool {
	return s.Index(role) != Absent
}
