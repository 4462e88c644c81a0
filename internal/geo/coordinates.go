package geo

import (
	"encoding/json"
	"math"
	"reflect"
)

// Coordinate is a single position, [Lon, Lat].
type Coordinate [2]float64

// Lon returns the longitude component.
func (c Coordinate) Lon() float64 { return c[0] }

// Lat returns the latitude component.
func (c Coordinate) Lat() float64 { return c[1] }

// number converts a dynamic numeric value. Strings are never numbers here,
// even when they look like one.
func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func checkPosition(kind Kind, c Coordinate) error {
	for i, f := range c {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return invalid(kind, ReasonNotNumeric, "component %d is %v", i, f)
		}
	}
	return nil
}

// list unwraps v as a slice or array.
func list(kind Kind, v interface{}, what string) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return reflect.Value{}, invalid(kind, ReasonArity, "%s is %T, want a list", what, v)
	}
	return rv, nil
}

func parsePosition(kind Kind, v interface{}) (Coordinate, error) {
	if c, ok := v.(Coordinate); ok {
		return c, checkPosition(kind, c)
	}

	rv, err := list(kind, v, "position")
	if err != nil {
		return Coordinate{}, err
	}
	if rv.Len() != 2 {
		return Coordinate{}, invalid(kind, ReasonArity, "position has %d components, want 2", rv.Len())
	}

	var c Coordinate
	for i := 0; i < 2; i++ {
		item := rv.Index(i).Interface()
		f, ok := number(item)
		if !ok {
			return Coordinate{}, invalid(kind, ReasonNotNumeric, "component %d is %T", i, item)
		}
		c[i] = f
	}
	return c, checkPosition(kind, c)
}

func parsePositions(kind Kind, v interface{}) ([]Coordinate, error) {
	if cs, ok := v.([]Coordinate); ok {
		return copyPositions(cs), nil
	}

	rv, err := list(kind, v, "position list")
	if err != nil {
		return nil, err
	}
	out := make([]Coordinate, rv.Len())
	for i := range out {
		if out[i], err = parsePosition(kind, rv.Index(i).Interface()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parseLines(kind Kind, v interface{}) ([][]Coordinate, error) {
	rv, err := list(kind, v, "line list")
	if err != nil {
		return nil, err
	}
	out := make([][]Coordinate, rv.Len())
	for i := range out {
		if out[i], err = parsePositions(kind, rv.Index(i).Interface()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parsePolygons(kind Kind, v interface{}) ([][][]Coordinate, error) {
	rv, err := list(kind, v, "polygon list")
	if err != nil {
		return nil, err
	}
	out := make([][][]Coordinate, rv.Len())
	for i := range out {
		if out[i], err = parseLines(kind, rv.Index(i).Interface()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// parsePayload converts an untyped coordinate payload into the typed shape
// of kind: Coordinate, []Coordinate, [][]Coordinate or [][][]Coordinate.
// Only nesting and numeric components are checked.
func parsePayload(kind Kind, v interface{}) (interface{}, error) {
	switch kind.depth() {
	case 0:
		return parsePosition(kind, v)
	case 1:
		return parsePositions(kind, v)
	case 2:
		return parseLines(kind, v)
	case 3:
		return parsePolygons(kind, v)
	}
	return nil, invalid(kind, ReasonTypeTag, "unsupported geometry type")
}

func copyPositions(cs []Coordinate) []Coordinate {
	out := make([]Coordinate, len(cs))
	copy(out, cs)
	return out
}

func copyLines(lines [][]Coordinate) [][]Coordinate {
	out := make([][]Coordinate, len(lines))
	for i, l := range lines {
		out[i] = copyPositions(l)
	}
	return out
}

func copyPolygons(polys [][][]Coordinate) [][][]Coordinate {
	out := make([][][]Coordinate, len(polys))
	for i, p := range polys {
		out[i] = copyLines(p)
	}
	return out
}
