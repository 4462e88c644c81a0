package geo

// Kind is the geometry type tag.
type Kind string

const (
	KindPoint           Kind = "Point"
	KindMultiPoint      Kind = "MultiPoint"
	KindLineString      Kind = "LineString"
	KindMultiLineString Kind = "MultiLineString"
	KindPolygon         Kind = "Polygon"
	KindMultiPolygon    Kind = "MultiPolygon"
)

// Kinds lists every supported geometry kind in declaration order.
var Kinds = []Kind{
	KindPoint,
	KindMultiPoint,
	KindLineString,
	KindMultiLineString,
	KindPolygon,
	KindMultiPolygon,
}

// ParseKind maps a GeoJSON type tag to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", &LookupError{Kind: s}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

// depth is the nesting level of positions in the kind's payload:
// 0 for a single position, 1 for a list of positions and so on.
func (k Kind) depth() int {
	switch k {
	case KindPoint:
		return 0
	case KindMultiPoint, KindLineString:
		return 1
	case KindMultiLineString, KindPolygon:
		return 2
	case KindMultiPolygon:
		return 3
	}
	return -1
}
