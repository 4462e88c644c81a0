package geo

// Geometry is a validated geometry value: one of the six kinds together
// with its coordinate payload and a free-form property bag.
// It is immutable once constructed; accessors return copies.
type Geometry struct {
	kind       Kind
	point      Coordinate
	points     []Coordinate
	lines      [][]Coordinate
	polygons   [][][]Coordinate
	properties map[string]interface{}
}

// NewPoint builds a Point.
func NewPoint(c Coordinate, properties map[string]interface{}) (*Geometry, error) {
	if err := checkPosition(KindPoint, c); err != nil {
		return nil, err
	}
	return &Geometry{kind: KindPoint, point: c, properties: copyProperties(properties)}, nil
}

// NewMultiPoint builds a MultiPoint of at least two positions.
func NewMultiPoint(points []Coordinate, properties map[string]interface{}) (*Geometry, error) {
	if err := validatePositions(KindMultiPoint, points, 2, "multipoint"); err != nil {
		return nil, err
	}
	return &Geometry{kind: KindMultiPoint, points: copyPositions(points), properties: copyProperties(properties)}, nil
}

// NewLineString builds a LineString of at least two positions.
func NewLineString(points []Coordinate, properties map[string]interface{}) (*Geometry, error) {
	if err := validatePositions(KindLineString, points, 2, "line"); err != nil {
		return nil, err
	}
	return &Geometry{kind: KindLineString, points: copyPositions(points), properties: copyProperties(properties)}, nil
}

// NewMultiLineString builds a MultiLineString of at least two lines.
func NewMultiLineString(lines [][]Coordinate, properties map[string]interface{}) (*Geometry, error) {
	if err := validateLines(KindMultiLineString, lines); err != nil {
		return nil, err
	}
	return &Geometry{kind: KindMultiLineString, lines: copyLines(lines), properties: copyProperties(properties)}, nil
}

// NewPolygon builds a Polygon. The first ring is the exterior, the rest are
// holes; every ring must hold at least four positions and be closed.
func NewPolygon(rings [][]Coordinate, properties map[string]interface{}) (*Geometry, error) {
	if err := validateRings(KindPolygon, rings); err != nil {
		return nil, err
	}
	return &Geometry{kind: KindPolygon, lines: copyLines(rings), properties: copyProperties(properties)}, nil
}

// NewMultiPolygon builds a MultiPolygon of at least two polygons.
func NewMultiPolygon(polygons [][][]Coordinate, properties map[string]interface{}) (*Geometry, error) {
	if err := validatePolygons(KindMultiPolygon, polygons); err != nil {
		return nil, err
	}
	return &Geometry{kind: KindMultiPolygon, polygons: copyPolygons(polygons), properties: copyProperties(properties)}, nil
}

// New builds a geometry of the given kind from an untyped coordinate
// payload, such as the nested []interface{} produced by a JSON decoder.
func New(kind Kind, coordinates interface{}, properties map[string]interface{}) (*Geometry, error) {
	if !kind.Valid() {
		return nil, invalid(kind, ReasonTypeTag, "unsupported geometry type")
	}
	payload, err := parsePayload(kind, coordinates)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindPoint:
		return NewPoint(payload.(Coordinate), properties)
	case KindMultiPoint:
		return NewMultiPoint(payload.([]Coordinate), properties)
	case KindLineString:
		return NewLineString(payload.([]Coordinate), properties)
	case KindMultiLineString:
		return NewMultiLineString(payload.([][]Coordinate), properties)
	case KindPolygon:
		return NewPolygon(payload.([][]Coordinate), properties)
	default:
		return NewMultiPolygon(payload.([][][]Coordinate), properties)
	}
}

// Kind returns the geometry type tag.
func (g *Geometry) Kind() Kind { return g.kind }

// Coordinates returns a copy of the typed payload: Coordinate for a Point,
// []Coordinate for MultiPoint and LineString, [][]Coordinate for
// MultiLineString and Polygon, [][][]Coordinate for MultiPolygon.
func (g *Geometry) Coordinates() interface{} {
	switch g.kind {
	case KindPoint:
		return g.point
	case KindMultiPoint, KindLineString:
		return copyPositions(g.points)
	case KindMultiLineString, KindPolygon:
		return copyLines(g.lines)
	case KindMultiPolygon:
		return copyPolygons(g.polygons)
	}
	return nil
}

// Properties returns a copy of the property bag.
func (g *Geometry) Properties() map[string]interface{} {
	return copyProperties(g.properties)
}

// ToFeature wraps the geometry into its GeoJSON feature record.
func (g *Geometry) ToFeature() GeoJSONFeature {
	return GeoJSONFeature{
		Type: TypeFeature,
		Geometry: &GeoJSONGeometry{
			Type:        string(g.kind),
			Coordinates: g.Coordinates(),
		},
		Properties: copyProperties(g.properties),
	}
}

// constructed reports whether g came out of one of the constructors.
func (g *Geometry) constructed() bool {
	return g != nil && g.kind.Valid()
}
