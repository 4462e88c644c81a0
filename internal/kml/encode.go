package kml

import (
	"io"

	"github.com/spf13/cast"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-kml"

	"github.com/woozymasta/geoframe/internal/geo"
)

// Encode writes the collection as an indented KML document, one Placemark
// per feature. The "name" and "description" properties become the matching
// Placemark children; other properties are not written.
func Encode(w io.Writer, fc *geo.GeoJSONFeatureCollection) error {
	geoms, err := fc.Geometries()
	if err != nil {
		return err
	}

	placemarks := make([]kml.Element, 0, len(geoms))
	for _, g := range geoms {
		var children []kml.Element

		props := g.Properties()
		if v, ok := props["name"]; ok {
			children = append(children, kml.Name(cast.ToString(v)))
		}
		if v, ok := props["description"]; ok {
			children = append(children, kml.Description(cast.ToString(v)))
		}

		el, err := encodeGeom(g.Geom())
		if err != nil {
			return err
		}
		children = append(children, el)

		placemarks = append(placemarks, kml.Placemark(children...))
	}

	return kml.KML(kml.Document(placemarks...)).WriteIndent(w, "", "  ")
}

// encodeGeom encodes an XY geometry.
func encodeGeom(g geom.T) (kml.Element, error) {
	switch g := g.(type) {
	case *geom.Point:
		return kml.Point(coordinatesFlat(g.FlatCoords(), 0, len(g.FlatCoords()), g.Stride())), nil
	case *geom.LineString:
		return kml.LineString(coordinatesFlat(g.FlatCoords(), 0, len(g.FlatCoords()), g.Stride())), nil
	case *geom.Polygon:
		return encodePolygon(g.FlatCoords(), 0, g.Ends(), g.Stride()), nil
	case *geom.MultiPoint:
		flat, stride := g.FlatCoords(), g.Stride()
		points := make([]kml.Element, 0, g.NumPoints())
		for offset := 0; offset < len(flat); offset += stride {
			points = append(points, kml.Point(coordinatesFlat(flat, offset, offset+stride, stride)))
		}
		return kml.MultiGeometry(points...), nil
	case *geom.MultiLineString:
		flat, stride := g.FlatCoords(), g.Stride()
		lines := make([]kml.Element, 0, g.NumLineStrings())
		offset := 0
		for _, end := range g.Ends() {
			lines = append(lines, kml.LineString(coordinatesFlat(flat, offset, end, stride)))
			offset = end
		}
		return kml.MultiGeometry(lines...), nil
	case *geom.MultiPolygon:
		flat, stride := g.FlatCoords(), g.Stride()
		polygons := make([]kml.Element, 0, g.NumPolygons())
		offset := 0
		for _, ends := range g.Endss() {
			polygons = append(polygons, encodePolygon(flat, offset, ends, stride))
			if len(ends) > 0 {
				offset = ends[len(ends)-1]
			}
		}
		return kml.MultiGeometry(polygons...), nil
	}
	return nil, geom.ErrUnsupportedType{Value: g}
}

func encodePolygon(flat []float64, offset int, ends []int, stride int) kml.Element {
	boundaries := make([]kml.Element, len(ends))
	for i, end := range ends {
		ring := kml.LinearRing(coordinatesFlat(flat, offset, end, stride))
		if i == 0 {
			boundaries[i] = kml.OuterBoundaryIs(ring)
		} else {
			boundaries[i] = kml.InnerBoundaryIs(ring)
		}
		offset = end
	}
	return kml.Polygon(boundaries...)
}

func coordinatesFlat(flat []float64, start, end, stride int) kml.Element {
	return kml.CoordinatesFlat(flat, start, end, stride, 2)
}
