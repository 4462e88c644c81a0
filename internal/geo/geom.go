package geo

import (
	"github.com/twpayne/go-geom"
)

// Geom converts the geometry into its go-geom equivalent in XY layout.
func (g *Geometry) Geom() geom.T {
	switch g.kind {
	case KindPoint:
		return geom.NewPointFlat(geom.XY, []float64{g.point[0], g.point[1]})
	case KindMultiPoint:
		return geom.NewMultiPointFlat(geom.XY, flatten(nil, g.points))
	case KindLineString:
		return geom.NewLineStringFlat(geom.XY, flatten(nil, g.points))
	case KindMultiLineString:
		flat, ends := flattenLines(nil, g.lines)
		return geom.NewMultiLineStringFlat(geom.XY, flat, ends)
	case KindPolygon:
		flat, ends := flattenLines(nil, g.lines)
		return geom.NewPolygonFlat(geom.XY, flat, ends)
	case KindMultiPolygon:
		var flat []float64
		endss := make([][]int, 0, len(g.polygons))
		for _, rings := range g.polygons {
			var ends []int
			flat, ends = flattenLines(flat, rings)
			endss = append(endss, ends)
		}
		return geom.NewMultiPolygonFlat(geom.XY, flat, endss)
	}
	return nil
}

// FromGeom builds a validated Geometry from a go-geom value. Z and M
// ordinates are dropped.
func FromGeom(t geom.T, properties map[string]interface{}) (*Geometry, error) {
	switch t := t.(type) {
	case *geom.Point:
		if t.Empty() {
			return nil, invalid(KindPoint, ReasonArity, "empty point")
		}
		return NewPoint(fromCoord(t.Coords()), properties)
	case *geom.MultiPoint:
		return NewMultiPoint(fromCoords(t.Coords()), properties)
	case *geom.LineString:
		return NewLineString(fromCoords(t.Coords()), properties)
	case *geom.MultiLineString:
		return NewMultiLineString(fromCoordss(t.Coords()), properties)
	case *geom.Polygon:
		return NewPolygon(fromCoordss(t.Coords()), properties)
	case *geom.MultiPolygon:
		coords := t.Coords()
		polys := make([][][]Coordinate, len(coords))
		for i, p := range coords {
			polys[i] = fromCoordss(p)
		}
		return NewMultiPolygon(polys, properties)
	}
	return nil, &TypeError{Value: t}
}

func flatten(dst []float64, pts []Coordinate) []float64 {
	for _, c := range pts {
		dst = append(dst, c[0], c[1])
	}
	return dst
}

// flattenLines appends lines to dst and returns the end offset of each line
// in the resulting flat slice.
func flattenLines(dst []float64, lines [][]Coordinate) ([]float64, []int) {
	ends := make([]int, 0, len(lines))
	for _, l := range lines {
		dst = flatten(dst, l)
		ends = append(ends, len(dst))
	}
	return dst, ends
}

func fromCoord(c geom.Coord) Coordinate {
	if len(c) < 2 {
		return Coordinate{}
	}
	return Coordinate{c[0], c[1]}
}

func fromCoords(cs []geom.Coord) []Coordinate {
	out := make([]Coordinate, len(cs))
	for i, c := range cs {
		out[i] = fromCoord(c)
	}
	return out
}

func fromCoordss(css [][]geom.Coord) [][]Coordinate {
	out := make([][]Coordinate, len(css))
	for i, cs := range css {
		out[i] = fromCoords(cs)
	}
	return out
}
