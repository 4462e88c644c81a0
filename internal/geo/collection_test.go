package geo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustPoint(t *testing.T, lon, lat float64, props map[string]interface{}) *Geometry {
	t.Helper()
	g, err := NewPoint(Coordinate{lon, lat}, props)
	require.NoError(t, err)
	return g
}

func sample(t *testing.T) *GeoJSONFeatureCollection {
	t.Helper()
	fc := NewFeatureCollection()
	require.NoError(t, fc.AddFeatures(
		mustPoint(t, 1, 1, map[string]interface{}{"type": "city", "pop": 100}),
		mustPoint(t, 2, 2, map[string]interface{}{"type": "village", "pop": 5}),
		mustPoint(t, 3, 3, map[string]interface{}{"name": "no type"}),
		mustPoint(t, 4, 4, map[string]interface{}{"type": "city", "pop": 2.5}),
	))
	return fc
}

func TestAddFeature(t *testing.T) {
	fc := NewFeatureCollection()
	fc.AddFeature("Circle", []interface{}{"anything"}, nil)

	require.Len(t, fc.Features, 1)
	f := fc.Features[0]
	require.Equal(t, TypeFeature, f.Type)
	require.Equal(t, "Circle", f.Geometry.Type)
	require.Equal(t, map[string]interface{}{}, f.Properties)
}

func TestAddFeaturesAtomic(t *testing.T) {
	fc := NewFeatureCollection()
	p := mustPoint(t, 1, 2, nil)

	err := fc.AddFeatures(p, nil, p)
	var terr *TypeError
	require.True(t, errors.As(err, &terr))
	require.Equal(t, 1, terr.Index)
	require.Empty(t, fc.Features)

	err = fc.AddFeatures(p, &Geometry{})
	require.True(t, errors.As(err, &terr))
	require.Equal(t, 1, terr.Index)
	require.Empty(t, fc.Features)

	require.NoError(t, fc.AddFeatures(p, p))
	require.Len(t, fc.Features, 2)
}

func TestPropertyKeysFirstFeatureOnly(t *testing.T) {
	require.Equal(t, []string{}, NewFeatureCollection().PropertyKeys())

	fc := NewFeatureCollection()
	fc.AddFeature("Point", []float64{0, 0}, map[string]interface{}{"b": 1, "a": 2})
	fc.AddFeature("Point", []float64{0, 0}, map[string]interface{}{"c": 3})
	require.Equal(t, []string{"a", "b"}, fc.PropertyKeys())
}

func TestFilter(t *testing.T) {
	fc := sample(t)
	before := fc.String()

	cities := fc.Filter("type", "city")
	require.Len(t, cities.Features, 2)
	require.Equal(t, Coordinate{1, 1}, cities.Features[0].Geometry.Coordinates)
	require.Equal(t, Coordinate{4, 4}, cities.Features[1].Geometry.Coordinates)
	require.Equal(t, before, fc.String())
	require.Len(t, fc.Features, 4)

	cities.Features[0].Properties["type"] = "changed"
	require.Equal(t, "city", fc.Features[0].Properties["type"])

	require.Len(t, fc.Filter("type", "city", "village").Features, 3)
	require.Empty(t, fc.Filter("type").Features)
	require.Empty(t, fc.Filter("missing", "city").Features)
	require.Equal(t, TypeFeatureCollection, fc.Filter("missing").Type)
}

func TestFilterComparesNumbersByValue(t *testing.T) {
	fc := sample(t)

	require.Len(t, fc.Filter("pop", 100.0).Features, 1)
	require.Len(t, fc.Filter("pop", int64(5), 2.5).Features, 2)
	require.Empty(t, fc.Filter("pop", "100").Features)
}

func TestMerge(t *testing.T) {
	a := sample(t)
	b := NewFeatureCollection()
	b.AddFeature("Point", []float64{9, 9}, map[string]interface{}{"type": "extra"})

	a.Merge(b, nil)
	require.Len(t, a.Features, 5)
	require.Equal(t, "extra", a.Features[4].Properties["type"])

	a.Features[4].Properties["type"] = "changed"
	require.Equal(t, "extra", b.Features[0].Properties["type"])
}

func TestGeometries(t *testing.T) {
	fc := sample(t)
	geoms, err := fc.Geometries()
	require.NoError(t, err)
	require.Len(t, geoms, 4)
	require.Equal(t, KindPoint, geoms[0].Kind())

	fc.AddFeature("LineString", [][]float64{{0, 0}}, nil)
	_, err = fc.Geometries()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, ReasonTooFew, verr.Reason)

	bad := NewFeatureCollection()
	bad.AddFeature("Circle", nil, nil)
	_, err = bad.Geometries()
	var lerr *LookupError
	require.True(t, errors.As(err, &lerr))
}
