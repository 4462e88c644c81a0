// Package table converts feature collections to and from flat rows.
package table

import (
	"github.com/spf13/cast"

	"github.com/woozymasta/geoframe/internal/geo"
)

// Default column names, matching a normalized GeoJSON feature.
const (
	TypeColumn        = "geometry.type"
	CoordinatesColumn = "geometry.coordinates"
)

// Row maps column names to cell values. A missing key is an absent cell.
type Row map[string]interface{}

// Table is anything that can hand out its rows.
type Table interface {
	Rows() []Row
}

// Rows is an in-memory Table.
type Rows []Row

// Rows returns r itself.
func (r Rows) Rows() []Row { return r }

// Options selects the columns produced by ToTable.
type Options struct {
	Kind        bool
	Coordinates bool
	// Properties lists the property columns. Nil means the keys of the
	// first feature.
	Properties []string
}

// ToTable flattens the collection into one row per feature. Coordinates are
// copied through as a nested value; properties missing from a feature are
// left out of its row.
func ToTable(fc *geo.GeoJSONFeatureCollection, opts Options) Rows {
	props := opts.Properties
	if props == nil {
		props = fc.PropertyKeys()
	}

	rows := make(Rows, 0, len(fc.Features))
	for _, f := range fc.Features {
		row := make(Row, len(props)+2)
		if f.Geometry != nil {
			if opts.Kind {
				row[TypeColumn] = f.Geometry.Type
			}
			if opts.Coordinates {
				row[CoordinatesColumn] = f.Geometry.Coordinates
			}
		}
		for _, k := range props {
			if v, ok := f.Properties[k]; ok {
				row[k] = v
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// FromTable rebuilds generic features from rows: the geometry type and
// coordinates come from the named columns, properties from the property
// columns present in each row. Nothing is validated; use Geometries on the
// result for that.
func FromTable(t Table, typeColumn, coordinatesColumn string, propertyColumns []string) *geo.GeoJSONFeatureCollection {
	if typeColumn == "" {
		typeColumn = TypeColumn
	}
	if coordinatesColumn == "" {
		coordinatesColumn = CoordinatesColumn
	}

	fc := geo.NewFeatureCollection()
	for _, row := range t.Rows() {
		fc.AddFeature(cast.ToString(row[typeColumn]), row[coordinatesColumn], pick(row, propertyColumns))
	}
	return fc
}

// FromCoordinateColumns builds Point features from separate latitude and
// longitude columns. Coordinates are ordered [lon, lat].
func FromCoordinateColumns(t Table, latColumn, lonColumn string, propertyColumns []string) *geo.GeoJSONFeatureCollection {
	fc := geo.NewFeatureCollection()
	for _, row := range t.Rows() {
		coords := []interface{}{row[lonColumn], row[latColumn]}
		fc.AddFeature(string(geo.KindPoint), coords, pick(row, propertyColumns))
	}
	return fc
}

func pick(row Row, columns []string) map[string]interface{} {
	props := make(map[string]interface{}, len(columns))
	for _, c := range columns {
		if v, ok := row[c]; ok {
			props[c] = v
		}
	}
	return props
}
