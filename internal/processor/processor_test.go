package processor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geoframe/internal/config"
	"github.com/woozymasta/geoframe/internal/geo"
)

func sampleCollection(t *testing.T) *geo.GeoJSONFeatureCollection {
	t.Helper()
	a, err := geo.NewPoint(geo.Coordinate{-75, 40}, map[string]interface{}{"name": "a", "rank": int64(1)})
	require.NoError(t, err)
	b, err := geo.NewLineString([]geo.Coordinate{{0, 0}, {1, 1}}, map[string]interface{}{"name": "b", "rank": int64(2)})
	require.NoError(t, err)
	c, err := geo.NewPolygon([][]geo.Coordinate{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, map[string]interface{}{"name": "c", "rank": int64(3)})
	require.NoError(t, err)

	fc := geo.NewFeatureCollection()
	require.NoError(t, fc.AddFeatures(a, b, c))
	return fc
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"a.geojson":               FormatGeoJSON,
		"a.json":                  FormatGeoJSON,
		"A.YML":                   FormatYAML,
		"dir/a.yaml.gz":           FormatYAML,
		"https://x.org/p/doc.kml": FormatKML,
		"table.csv.gz":            FormatCSV,
		"no-extension":            FormatGeoJSON,
	}
	for name, want := range cases {
		require.Equal(t, want, DetectFormat(name), name)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("KML")
	require.NoError(t, err)
	require.Equal(t, FormatKML, f)

	_, err = ParseFormat("shp")
	require.Error(t, err)
}

func TestFormatsRoundTrip(t *testing.T) {
	fc := sampleCollection(t)
	want, err := fc.Geometries()
	require.NoError(t, err)

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(fc, f, Options{Indent: 2})
			require.NoError(t, err)

			back, err := Decode(f, data, Options{})
			require.NoError(t, err)

			got, err := back.Geometries()
			require.NoError(t, err)
			require.Len(t, got, len(want))
			for i := range want {
				require.Equal(t, want[i].Kind(), got[i].Kind())
				require.Equal(t, want[i].Coordinates(), got[i].Coordinates())
				require.Equal(t, "abc"[i:i+1], got[i].Properties()["name"])
			}
		})
	}
}

func TestDecodeCSVColumns(t *testing.T) {
	data := "id,latitude,longitude,status\n1,40.5,-75.25,open\n2,41,-76,\n"

	fc, err := Decode(FormatCSV, []byte(data), Options{Lat: "latitude", Lon: "longitude"})
	require.NoError(t, err)
	geoms, err := fc.Geometries()
	require.NoError(t, err)
	require.Len(t, geoms, 2)
	require.Equal(t, geo.Coordinate{-75.25, 40.5}, geoms[0].Coordinates())
	require.Equal(t, map[string]interface{}{"id": int64(1), "status": "open"}, geoms[0].Properties())
	require.Equal(t, map[string]interface{}{"id": int64(2)}, geoms[1].Properties())

	fc, err = Decode(FormatCSV, []byte(data), Options{Lat: "latitude", Lon: "longitude", Properties: []string{"status"}})
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"status": "open"}, fc.Features[0].Properties)
}

func TestDecodeCustomColumns(t *testing.T) {
	data := "kind,coords,name\nPoint,\"[1,2]\",x\n"
	fc, err := Decode(FormatCSV, []byte(data), Options{TypeColumn: "kind", CoordinatesColumn: "coords"})
	require.NoError(t, err)
	geoms, err := fc.Geometries()
	require.NoError(t, err)
	require.Equal(t, geo.Coordinate{1, 2}, geoms[0].Coordinates())
	require.Equal(t, map[string]interface{}{"name": "x"}, geoms[0].Properties())
}

func TestEncodeMinify(t *testing.T) {
	fc := sampleCollection(t)

	pretty, err := Encode(fc, FormatGeoJSON, Options{Indent: 4})
	require.NoError(t, err)
	require.Contains(t, string(pretty), "\n    ")

	small, err := Encode(fc, FormatGeoJSON, Options{Indent: 4, Minify: true})
	require.NoError(t, err)
	require.NotContains(t, string(small), "\n")
	require.Less(t, len(small), len(pretty))

	back, err := geo.Decode(small)
	require.NoError(t, err)
	require.Len(t, back.Features, 3)

	kmlData, err := Encode(fc, FormatKML, Options{Minify: true})
	require.NoError(t, err)
	back, err = Decode(FormatKML, kmlData, Options{})
	require.NoError(t, err)
	require.Len(t, back.Features, 3)
}

func TestReadWriteText(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plain.geojson", "packed.geojson.gz"} {
		path := filepath.Join(dir, "nested", name)
		require.NoError(t, WriteText(path, []byte(`{"a":1}`)))

		data, err := ReadText(path)
		require.NoError(t, err)
		require.Equal(t, `{"a":1}`, string(data))
	}

	_, err := ReadText(filepath.Join(dir, "absent"))
	require.Error(t, err)
}

func TestFetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plain.csv":
			_, _ = w.Write([]byte("a,b\n1,2\n"))
		case "/packed.csv.gz":
			zw := gzip.NewWriter(w)
			_, _ = zw.Write([]byte("a,b\n3,4\n"))
			_ = zw.Close()
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	data, err := Load(ctx, srv.Client(), srv.URL+"/plain.csv")
	require.NoError(t, err)
	require.Equal(t, "a,b\n1,2\n", string(data))

	data, err = FetchText(ctx, srv.Client(), srv.URL+"/packed.csv.gz")
	require.NoError(t, err)
	require.Equal(t, "a,b\n3,4\n", string(data))

	_, err = FetchText(ctx, srv.Client(), srv.URL+"/missing")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "404"))
}

func TestProcessLayer(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "stations.csv")
	require.NoError(t, WriteText(src, []byte("name,lat,lon,status\nA,1,2,open\nB,3,4,closed\nC,5,6,open\n")))

	cfg := &config.Config{}
	layer := config.Layer{
		Name:   "stations",
		Source: src,
		Lat:    "lat",
		Lon:    "lon",
		Filter: &config.Filter{Key: "status", Values: []interface{}{"open"}},
	}

	out := filepath.Join(dir, "layers")
	require.NoError(t, ProcessLayer(context.Background(), http.DefaultClient, cfg, layer, out, false))

	data, err := ReadText(LayerFile(out, "stations"))
	require.NoError(t, err)
	fc, err := geo.Decode(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	require.Equal(t, "A", fc.Features[0].Properties["name"])
	require.Equal(t, "C", fc.Features[1].Properties["name"])

	// existing output is kept without force
	require.NoError(t, WriteText(src, []byte("name,lat,lon,status\nZ,1,2,open\n")))
	require.NoError(t, ProcessLayer(context.Background(), http.DefaultClient, cfg, layer, out, false))
	data, err = ReadText(LayerFile(out, "stations"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"A"`)

	require.NoError(t, ProcessLayer(context.Background(), http.DefaultClient, cfg, layer, out, true))
	data, err = ReadText(LayerFile(out, "stations"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"Z"`)
}

func TestProcessLayerInvalidGeometry(t *testing.T) {
	dir := t.TempDir()
	inline, err := geo.Decode([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0]]},"properties":{}}]}`))
	require.NoError(t, err)

	layer := config.Layer{Name: "bad", Inline: inline}
	err = ProcessLayer(context.Background(), http.DefaultClient, &config.Config{}, layer, dir, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "layer bad")
}

func TestFilterValues(t *testing.T) {
	require.Equal(t,
		[]interface{}{"2", 2.0, "true", true, "x", "", "1.5", 1.5},
		FilterValues([]string{"2", "true", "x", "", "1.5"}))

	fc := geo.NewFeatureCollection()
	fc.AddFeature("Point", geo.Coordinate{0, 0}, map[string]interface{}{"v": int64(2)})
	fc.AddFeature("Point", geo.Coordinate{0, 0}, map[string]interface{}{"v": "2"})
	fc.AddFeature("Point", geo.Coordinate{0, 0}, map[string]interface{}{"v": true})
	fc.AddFeature("Point", geo.Coordinate{0, 0}, map[string]interface{}{"v": "true"})

	require.Len(t, fc.Filter("v", FilterValues([]string{"2"})...).Features, 2)
	require.Len(t, fc.Filter("v", FilterValues([]string{"true"})...).Features, 2)
}
