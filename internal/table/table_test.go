package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geoframe/internal/geo"
)

func sampleCollection(t *testing.T) *geo.GeoJSONFeatureCollection {
	t.Helper()

	p, err := geo.NewPoint(geo.Coordinate{1, 2}, map[string]interface{}{"name": "a", "pop": int64(10)})
	require.NoError(t, err)
	poly, err := geo.NewPolygon([][]geo.Coordinate{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, map[string]interface{}{"name": "b"})
	require.NoError(t, err)

	fc := geo.NewFeatureCollection()
	require.NoError(t, fc.AddFeatures(p, poly))
	return fc
}

func TestToTable(t *testing.T) {
	fc := sampleCollection(t)

	rows := ToTable(fc, Options{Kind: true, Coordinates: true, Properties: []string{"name", "pop"}})
	require.Equal(t, Rows{
		{TypeColumn: "Point", CoordinatesColumn: geo.Coordinate{1, 2}, "name": "a", "pop": int64(10)},
		{TypeColumn: "Polygon", CoordinatesColumn: [][]geo.Coordinate{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, "name": "b"},
	}, rows)

	rows = ToTable(fc, Options{})
	require.Equal(t, Rows{
		{"name": "a", "pop": int64(10)},
		{"name": "b"},
	}, rows)
}

func TestFromTableRoundTrip(t *testing.T) {
	in := Rows{
		{"kind": "Point", "coords": []interface{}{1.0, 2.0}, "name": "a"},
		{"kind": "LineString", "coords": []interface{}{[]interface{}{0.0, 0.0}, []interface{}{1.0, 1.0}}, "name": "b", "extra": 1},
		{"kind": "Circle", "coords": "whatever"},
	}

	fc := FromTable(in, "kind", "coords", []string{"name"})
	require.Len(t, fc.Features, 3)
	require.Equal(t, "Circle", fc.Features[2].Geometry.Type)
	require.NotContains(t, fc.Features[1].Properties, "extra")
	require.NotContains(t, fc.Features[2].Properties, "name")

	out := ToTable(fc, Options{Kind: true, Coordinates: true, Properties: []string{"name"}})
	for i := range out {
		require.Equal(t, in[i]["kind"], out[i][TypeColumn])
		require.Equal(t, in[i]["coords"], out[i][CoordinatesColumn])
		require.Equal(t, in[i]["name"], out[i]["name"])
	}
}

func TestTableRoundTripDefaultColumns(t *testing.T) {
	fc := sampleCollection(t)
	props := []string{"name", "pop"}

	rows := ToTable(fc, Options{Kind: true, Coordinates: true, Properties: props})
	back := FromTable(rows, "", "", props)
	require.Equal(t, fc.Features, back.Features)
	require.Equal(t, rows, ToTable(back, Options{Kind: true, Coordinates: true, Properties: props}))
}

func TestFromCoordinateColumnsOrdersLonLat(t *testing.T) {
	rows := Rows{{"lat": 40.0, "lon": -75.0, "name": "x"}}

	fc := FromCoordinateColumns(rows, "lat", "lon", []string{"name"})
	require.Len(t, fc.Features, 1)
	require.Equal(t, "Point", fc.Features[0].Geometry.Type)
	require.Equal(t, []interface{}{-75.0, 40.0}, fc.Features[0].Geometry.Coordinates)
	require.Equal(t, map[string]interface{}{"name": "x"}, fc.Features[0].Properties)

	geoms, err := fc.Geometries()
	require.NoError(t, err)
	require.Equal(t, geo.Coordinate{-75, 40}, geoms[0].Coordinates())
}
