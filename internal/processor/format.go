// Package processor converts feature collections between their text
// formats and handles fetching and storing them.
package processor

import (
	"bytes"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	minjson "github.com/tdewolff/minify/v2/json"
	minxml "github.com/tdewolff/minify/v2/xml"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/geoframe/internal/geo"
	"github.com/woozymasta/geoframe/internal/kml"
	"github.com/woozymasta/geoframe/internal/table"
)

// Format is a text encoding of a feature collection.
type Format string

const (
	FormatGeoJSON Format = "geojson"
	FormatYAML    Format = "yaml"
	FormatKML     Format = "kml"
	FormatCSV     Format = "csv"
)

// Formats lists every supported format.
var Formats = []Format{FormatGeoJSON, FormatYAML, FormatKML, FormatCSV}

// Options tunes decoding of tabular input and rendering of output.
type Options struct {
	// Lat and Lon name the coordinate columns of point tables. When both
	// are empty, TypeColumn and CoordinatesColumn are used instead.
	Lat string
	Lon string

	TypeColumn        string
	CoordinatesColumn string

	// Properties lists the property columns. Nil means every other CSV
	// column on input and the first feature's keys on output.
	Properties []string

	Indent int
	Minify bool
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", errors.Errorf("unknown format %q", s)
}

// DetectFormat guesses the format from a file name or URL, ignoring a
// trailing .gz. GeoJSON is the fallback.
func DetectFormat(name string) Format {
	name = strings.TrimSuffix(strings.ToLower(name), ".gz")
	switch path.Ext(name) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".kml":
		return FormatKML
	case ".csv":
		return FormatCSV
	}
	return FormatGeoJSON
}

// MediaType returns the content type served for the format.
func MediaType(f Format) string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatKML:
		return "application/vnd.google-earth.kml+xml"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/geo+json"
}

// Extension returns the file extension of the format, dot included.
func Extension(f Format) string {
	if f == FormatGeoJSON {
		return ".geojson"
	}
	return "." + string(f)
}

// Decode parses data in the given format.
func Decode(f Format, data []byte, opts Options) (*geo.GeoJSONFeatureCollection, error) {
	switch f {
	case FormatGeoJSON:
		return geo.Decode(data)

	case FormatYAML:
		var obj map[string]interface{}
		if err := yaml.Unmarshal(data, &obj); err != nil {
			return nil, &geo.DecodeError{Index: -1, Reason: "malformed yaml", Err: err}
		}
		return geo.FromMap(obj)

	case FormatKML:
		return kml.Ingest(data)

	case FormatCSV:
		rows, header, err := table.ReadCSV(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if opts.Lat != "" || opts.Lon != "" {
			props := propertyColumns(opts.Properties, header, opts.Lat, opts.Lon)
			return table.FromCoordinateColumns(rows, opts.Lat, opts.Lon, props), nil
		}

		typeCol, coordCol := columnNames(opts)
		props := propertyColumns(opts.Properties, header, typeCol, coordCol)
		return table.FromTable(rows, typeCol, coordCol, props), nil
	}
	return nil, errors.Errorf("unknown format %q", f)
}

// Encode renders fc in the given format.
func Encode(fc *geo.GeoJSONFeatureCollection, f Format, opts Options) ([]byte, error) {
	var data []byte
	var err error

	switch f {
	case FormatGeoJSON:
		if opts.Indent > 0 {
			data, err = geo.EncodeIndent(fc, strings.Repeat(" ", opts.Indent))
		} else {
			data, err = geo.Encode(fc)
		}

	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		if opts.Indent > 0 {
			enc.SetIndent(opts.Indent)
		}
		if err = enc.Encode(fc); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()

	case FormatKML:
		var buf bytes.Buffer
		err = kml.Encode(&buf, fc)
		data = buf.Bytes()

	case FormatCSV:
		props := opts.Properties
		if props == nil {
			props = fc.PropertyKeys()
		}
		rows := table.ToTable(fc, table.Options{Kind: true, Coordinates: true, Properties: props})

		var buf bytes.Buffer
		columns := append([]string{table.TypeColumn, table.CoordinatesColumn}, props...)
		err = table.WriteCSV(&buf, rows, columns)
		data = buf.Bytes()

	default:
		return nil, errors.Errorf("unknown format %q", f)
	}

	if err != nil {
		return nil, err
	}
	if opts.Minify {
		return Minify(f, data)
	}
	return data, nil
}

// Minify strips insignificant whitespace from GeoJSON and KML text. Other
// formats are returned unchanged.
func Minify(f Format, data []byte) ([]byte, error) {
	m := minify.New()
	m.AddFunc(MediaType(FormatGeoJSON), minjson.Minify)
	m.AddFunc(MediaType(FormatKML), minxml.Minify)

	switch f {
	case FormatGeoJSON, FormatKML:
		return m.Bytes(MediaType(f), data)
	}
	return data, nil
}

func columnNames(opts Options) (string, string) {
	typeCol, coordCol := opts.TypeColumn, opts.CoordinatesColumn
	if typeCol == "" {
		typeCol = table.TypeColumn
	}
	if coordCol == "" {
		coordCol = table.CoordinatesColumn
	}
	return typeCol, coordCol
}

// propertyColumns returns explicit when set, otherwise every header column
// not in exclude.
func propertyColumns(explicit, header []string, exclude ...string) []string {
	if explicit != nil {
		return explicit
	}

	props := make([]string, 0, len(header))
	for _, h := range header {
		skip := false
		for _, e := range exclude {
			if h == e {
				skip = true
				break
			}
		}
		if !skip {
			props = append(props, h)
		}
	}
	return props
}
