package kml

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geoframe/internal/geo"
)

// Geometries turns placemarks into validated geometries, one per placemark.
// When a placemark carries several geometry elements the first present in
// the order Point, LineString, Polygon, MultiGeometry wins. Placemarks
// without geometry are skipped. Malformed coordinate text fails with a
// *geo.ValidationError.
func Geometries(placemarks []Placemark) ([]*geo.Geometry, error) {
	out := make([]*geo.Geometry, 0, len(placemarks))
	for i, pm := range placemarks {
		props := make(map[string]interface{}, len(pm.Properties))
		for k, v := range pm.Properties {
			props[k] = v
		}

		g, err := pm.geometry(props)
		if err != nil {
			return nil, errors.Wrapf(err, "placemark %d", i)
		}
		if g == nil {
			log.Debug().Int("placemark", i).Msg("Placemark has no geometry, skipping")
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// Ingest parses a KML document into a feature collection.
func Ingest(data []byte) (*geo.GeoJSONFeatureCollection, error) {
	placemarks, err := Parse(data)
	if err != nil {
		return nil, err
	}
	geoms, err := Geometries(placemarks)
	if err != nil {
		return nil, err
	}

	fc := geo.NewFeatureCollection()
	if err := fc.AddFeatures(geoms...); err != nil {
		return nil, err
	}
	return fc, nil
}

func (pm *Placemark) geometry(props map[string]interface{}) (*geo.Geometry, error) {
	switch {
	case pm.Point != nil:
		c, err := point(geo.KindPoint, pm.Point.Coordinates)
		if err != nil {
			return nil, err
		}
		return geo.NewPoint(c, props)

	case pm.LineString != nil:
		line, err := coordinates(geo.KindLineString, pm.LineString.Coordinates)
		if err != nil {
			return nil, err
		}
		return geo.NewLineString(line, props)

	case pm.Polygon != nil:
		rs, err := rings(geo.KindPolygon, *pm.Polygon)
		if err != nil {
			return nil, err
		}
		return geo.NewPolygon(rs, props)

	case len(pm.MultiPoints) > 0:
		return multiPoint(pm.MultiPoints, props)

	case len(pm.MultiLineStrings) > 0:
		return multiLineString(pm.MultiLineStrings, props)

	case len(pm.MultiPolygons) > 0:
		return multiPolygon(pm.MultiPolygons, props)
	}
	return nil, nil
}

// A MultiGeometry with a single member collapses to that member's kind.
func multiPoint(shapes []Shape, props map[string]interface{}) (*geo.Geometry, error) {
	kind := geo.KindMultiPoint
	if len(shapes) == 1 {
		kind = geo.KindPoint
	}
	pts := make([]geo.Coordinate, 0, len(shapes))
	for _, s := range shapes {
		c, err := point(kind, s.Coordinates)
		if err != nil {
			return nil, err
		}
		pts = append(pts, c)
	}
	if kind == geo.KindPoint {
		return geo.NewPoint(pts[0], props)
	}
	return geo.NewMultiPoint(pts, props)
}

func multiLineString(shapes []Shape, props map[string]interface{}) (*geo.Geometry, error) {
	kind := geo.KindMultiLineString
	if len(shapes) == 1 {
		kind = geo.KindLineString
	}
	lines := make([][]geo.Coordinate, 0, len(shapes))
	for _, s := range shapes {
		line, err := coordinates(kind, s.Coordinates)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if kind == geo.KindLineString {
		return geo.NewLineString(lines[0], props)
	}
	return geo.NewMultiLineString(lines, props)
}

func multiPolygon(shapes []Shape, props map[string]interface{}) (*geo.Geometry, error) {
	kind := geo.KindMultiPolygon
	if len(shapes) == 1 {
		kind = geo.KindPolygon
	}
	polys := make([][][]geo.Coordinate, 0, len(shapes))
	for _, s := range shapes {
		r, err := rings(kind, s)
		if err != nil {
			return nil, err
		}
		polys = append(polys, r)
	}
	if kind == geo.KindPolygon {
		return geo.NewPolygon(polys[0], props)
	}
	return geo.NewMultiPolygon(polys, props)
}

func rings(kind geo.Kind, s Shape) ([][]geo.Coordinate, error) {
	outer, err := coordinates(kind, s.Coordinates)
	if err != nil {
		return nil, err
	}
	out := [][]geo.Coordinate{outer}
	for _, text := range s.Inner {
		inner, err := coordinates(kind, text)
		if err != nil {
			return nil, err
		}
		out = append(out, inner)
	}
	return out, nil
}

func point(kind geo.Kind, text string) (geo.Coordinate, error) {
	cs, err := coordinates(kind, text)
	if err != nil {
		return geo.Coordinate{}, err
	}
	if len(cs) != 1 {
		return geo.Coordinate{}, &geo.ValidationError{
			Kind:   kind,
			Reason: geo.ReasonArity,
			Detail: fmt.Sprintf("point has %d coordinate tuples, want 1", len(cs)),
		}
	}
	return cs[0], nil
}

// Some exporters put blanks around the commas inside a tuple.
var commaSpace = regexp.MustCompile(`\s*,\s*`)

// coordinates parses whitespace separated "lon,lat[,alt]" tuples. The
// altitude is dropped.
func coordinates(kind geo.Kind, text string) ([]geo.Coordinate, error) {
	tuples := strings.Fields(commaSpace.ReplaceAllString(text, ","))
	out := make([]geo.Coordinate, 0, len(tuples))
	for _, tuple := range tuples {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, &geo.ValidationError{
				Kind:   kind,
				Reason: geo.ReasonArity,
				Detail: fmt.Sprintf("coordinate tuple %q", tuple),
			}
		}

		var c geo.Coordinate
		for i := range c {
			f, err := strconv.ParseFloat(parts[i], 64)
			if err != nil {
				return nil, &geo.ValidationError{
					Kind:   kind,
					Reason: geo.ReasonNotNumeric,
					Detail: fmt.Sprintf("coordinate tuple %q", tuple),
				}
			}
			c[i] = f
		}
		out = append(out, c)
	}
	return out, nil
}
