package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ToMap converts the collection into generic nested maps and slices.
func (fc *GeoJSONFeatureCollection) ToMap() map[string]interface{} {
	features := make([]interface{}, 0, len(fc.Features))
	for _, f := range fc.Features {
		var geometry interface{}
		if f.Geometry != nil {
			geometry = map[string]interface{}{
				"type":        f.Geometry.Type,
				"coordinates": f.Geometry.Coordinates,
			}
		}
		features = append(features, map[string]interface{}{
			"type":       TypeFeature,
			"geometry":   geometry,
			"properties": copyProperties(f.Properties),
		})
	}

	return map[string]interface{}{
		"type":     TypeFeatureCollection,
		"features": features,
	}
}

// FromMap decodes a collection from generic nested maps, as produced by a
// JSON or YAML decoder.
//
// Decoding is strict: a feature without a geometry fails the whole decode
// with a *DecodeError naming its index, and an unknown geometry type fails
// with a *LookupError. Coordinates are converted to the typed shapes of
// their kind, but count and closure rules are left to Geometries.
func FromMap(data map[string]interface{}) (*GeoJSONFeatureCollection, error) {
	if t, _ := data["type"].(string); t != TypeFeatureCollection {
		return nil, &DecodeError{Index: -1, Reason: fmt.Sprintf("type is %v, want %s", data["type"], TypeFeatureCollection)}
	}

	raw, ok := data["features"]
	if !ok {
		return nil, &DecodeError{Index: -1, Reason: "missing features"}
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, &DecodeError{Index: -1, Reason: fmt.Sprintf("features is %T, want a list", raw)}
	}

	fc := &GeoJSONFeatureCollection{Type: TypeFeatureCollection, Features: make([]GeoJSONFeature, 0, len(items))}
	for i, item := range items {
		f, err := decodeFeature(i, item)
		if err != nil {
			return nil, err
		}
		fc.Features = append(fc.Features, f)
	}
	return fc, nil
}

func decodeFeature(idx int, item interface{}) (GeoJSONFeature, error) {
	obj, ok := item.(map[string]interface{})
	if !ok {
		return GeoJSONFeature{}, &DecodeError{Index: idx, Reason: fmt.Sprintf("feature is %T, want an object", item)}
	}
	if t, _ := obj["type"].(string); t != TypeFeature {
		return GeoJSONFeature{}, &DecodeError{Index: idx, Reason: fmt.Sprintf("type is %v, want %s", obj["type"], TypeFeature)}
	}

	geometry, ok := obj["geometry"].(map[string]interface{})
	if !ok {
		return GeoJSONFeature{}, &DecodeError{Index: idx, Reason: "missing geometry"}
	}
	tag, ok := geometry["type"].(string)
	if !ok {
		return GeoJSONFeature{}, &DecodeError{Index: idx, Reason: "missing geometry type"}
	}
	kind, err := ParseKind(tag)
	if err != nil {
		return GeoJSONFeature{}, err
	}
	raw, ok := geometry["coordinates"]
	if !ok {
		return GeoJSONFeature{}, &DecodeError{Index: idx, Reason: "missing coordinates"}
	}
	coords, err := parsePayload(kind, raw)
	if err != nil {
		return GeoJSONFeature{}, &DecodeError{Index: idx, Reason: "bad coordinates", Err: err}
	}

	var props map[string]interface{}
	switch p := obj["properties"].(type) {
	case nil:
		props = map[string]interface{}{}
	case map[string]interface{}:
		n, err := normalizeValue(p)
		if err != nil {
			return GeoJSONFeature{}, &DecodeError{Index: idx, Reason: "bad number", Err: err}
		}
		props = n.(map[string]interface{})
	default:
		return GeoJSONFeature{}, &DecodeError{Index: idx, Reason: fmt.Sprintf("properties is %T, want an object", p)}
	}

	return GeoJSONFeature{
		Type:       TypeFeature,
		Geometry:   &GeoJSONGeometry{Type: tag, Coordinates: coords},
		Properties: props,
	}, nil
}

// normalizeValue copies maps and slices and gives numbers one Go type per
// kind: integers of any width become int64, floats float64. Decoder numbers
// become int64 for integral literals and float64 otherwise; a literal that
// overflows float64 is an error.
func normalizeValue(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case json.Number:
		if !strings.ContainsAny(string(t), ".eE") {
			if i, err := t.Int64(); err == nil {
				return i, nil
			}
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case uint:
		return normalizeUint(uint64(t)), nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint64:
		return normalizeUint(t), nil
	case float32:
		return float64(t), nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, x := range t {
			n, err := normalizeValue(x)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", k)
			}
			out[k] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, x := range t {
			n, err := normalizeValue(x)
			if err != nil {
				return nil, errors.Wrapf(err, "item %d", i)
			}
			out[i] = n
		}
		return out, nil
	}
	return v, nil
}

func normalizeUint(u uint64) interface{} {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

// encodeValue marks integral floats with a fraction so they decode back as
// float64 rather than int64.
func encodeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e21 {
			return json.Number(strconv.FormatFloat(t, 'f', -1, 64) + ".0")
		}
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, x := range t {
			out[k] = encodeValue(x)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = encodeValue(x)
		}
		return out
	}
	return v
}

// Encode renders the collection as compact GeoJSON text.
// Object keys come out in declaration order, property keys sorted.
func Encode(fc *GeoJSONFeatureCollection) ([]byte, error) {
	return encode(fc, "")
}

// EncodeIndent is like Encode but indents nested values.
func EncodeIndent(fc *GeoJSONFeatureCollection, indent string) ([]byte, error) {
	return encode(fc, indent)
}

func encode(fc *GeoJSONFeatureCollection, indent string) ([]byte, error) {
	out := GeoJSONFeatureCollection{Type: TypeFeatureCollection, Features: make([]GeoJSONFeature, len(fc.Features))}
	for i, f := range fc.Features {
		f.Type = TypeFeature
		props := make(map[string]interface{}, len(f.Properties))
		for k, v := range f.Properties {
			props[k] = encodeValue(v)
		}
		f.Properties = props
		out.Features[i] = f
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses GeoJSON text. See FromMap for the decoding rules.
func Decode(data []byte) (*GeoJSONFeatureCollection, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil, &DecodeError{Index: -1, Reason: "malformed json", Err: err}
	}
	return FromMap(obj)
}

// String renders the collection as indented GeoJSON.
func (fc *GeoJSONFeatureCollection) String() string {
	data, err := EncodeIndent(fc, "    ")
	if err != nil {
		return fmt.Sprintf("<invalid FeatureCollection: %v>", err)
	}
	return string(data)
}
