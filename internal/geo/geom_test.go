package geo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestGeomRoundTrip(t *testing.T) {
	hole := []Coordinate{{1, 1}, {2, 1}, {2, 2}, {1, 1}}
	outer := []Coordinate{{0, 0}, {10, 0}, {10, 10}, {0, 0}}

	cases := []struct {
		kind   Kind
		coords interface{}
	}{
		{KindPoint, Coordinate{-75, 40}},
		{KindMultiPoint, []Coordinate{{0, 0}, {1, 1}}},
		{KindLineString, []Coordinate{{0, 0}, {1, 1}, {2, 0}}},
		{KindMultiLineString, [][]Coordinate{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}, {4, 4}}}},
		{KindPolygon, [][]Coordinate{outer, hole}},
		{KindMultiPolygon, [][][]Coordinate{{outer, hole}, {square}}},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			g, err := New(tc.kind, tc.coords, map[string]interface{}{"k": "v"})
			require.NoError(t, err)

			back, err := FromGeom(g.Geom(), g.Properties())
			require.NoError(t, err)
			require.Equal(t, g, back)
		})
	}
}

func TestFromGeomDropsZ(t *testing.T) {
	p := geom.NewPointFlat(geom.XYZ, []float64{1, 2, 3})
	g, err := FromGeom(p, nil)
	require.NoError(t, err)
	require.Equal(t, Coordinate{1, 2}, g.Coordinates())
}

func TestFromGeomValidates(t *testing.T) {
	ls := geom.NewLineStringFlat(geom.XY, []float64{0, 0})
	_, err := FromGeom(ls, nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = FromGeom(geom.NewPointEmpty(geom.XY), nil)
	require.True(t, errors.As(err, &verr))
	require.Equal(t, KindPoint, verr.Kind)
	require.Equal(t, ReasonArity, verr.Reason)

	_, err = FromGeom(geom.NewGeometryCollection(), nil)
	var terr *TypeError
	require.True(t, errors.As(err, &terr))
}
