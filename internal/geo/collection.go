package geo

import (
	"reflect"
	"sort"
)

// NewFeatureCollection returns an empty collection.
func NewFeatureCollection() *GeoJSONFeatureCollection {
	return &GeoJSONFeatureCollection{Type: TypeFeatureCollection, Features: []GeoJSONFeature{}}
}

// AddFeature appends a generic feature. The geometry is not validated;
// kind may be any tag and coordinates any payload.
func (fc *GeoJSONFeatureCollection) AddFeature(kind string, coordinates interface{}, properties map[string]interface{}) {
	fc.Features = append(fc.Features, GeoJSONFeature{
		Type:       TypeFeature,
		Geometry:   &GeoJSONGeometry{Type: kind, Coordinates: coordinates},
		Properties: copyProperties(properties),
	})
}

// AddFeatures appends the feature records of the given geometries.
// Either every geometry is appended or, when one of them is nil or was not
// built by a constructor, none is and a *TypeError is returned.
func (fc *GeoJSONFeatureCollection) AddFeatures(geoms ...*Geometry) error {
	for i, g := range geoms {
		if !g.constructed() {
			return &TypeError{Index: i, Value: g}
		}
	}

	for _, g := range geoms {
		fc.Features = append(fc.Features, g.ToFeature())
	}
	return nil
}

// Merge appends copies of the features of the other collections.
func (fc *GeoJSONFeatureCollection) Merge(others ...*GeoJSONFeatureCollection) {
	for _, o := range others {
		if o == nil {
			continue
		}
		for _, f := range o.Features {
			fc.Features = append(fc.Features, f.clone())
		}
	}
}

// PropertyKeys samples the property keys of the first feature only, sorted.
// It returns an empty slice for an empty collection.
func (fc *GeoJSONFeatureCollection) PropertyKeys() []string {
	if len(fc.Features) == 0 {
		return []string{}
	}

	props := fc.Features[0].Properties
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Filter returns a new collection holding copies of the features whose
// property key has one of the given values. Features without the key never
// match. The receiver is left untouched.
func (fc *GeoJSONFeatureCollection) Filter(key string, values ...interface{}) *GeoJSONFeatureCollection {
	out := NewFeatureCollection()
	for _, f := range fc.Features {
		v, ok := f.Properties[key]
		if !ok || !containsValue(values, v) {
			continue
		}
		out.Features = append(out.Features, f.clone())
	}
	return out
}

// Geometries validates every feature and returns them as typed geometries.
func (fc *GeoJSONFeatureCollection) Geometries() ([]*Geometry, error) {
	out := make([]*Geometry, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			return nil, &DecodeError{Index: i, Reason: "missing geometry"}
		}
		kind, err := ParseKind(f.Geometry.Type)
		if err != nil {
			return nil, err
		}
		g, err := New(kind, f.Geometry.Coordinates, f.Properties)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func containsValue(values []interface{}, v interface{}) bool {
	for _, want := range values {
		if sameValue(want, v) {
			return true
		}
	}
	return false
}

// sameValue compares property values; numbers compare by value regardless
// of their Go type.
func sameValue(a, b interface{}) bool {
	fa, aNum := number(a)
	fb, bNum := number(b)
	if aNum || bNum {
		return aNum && bNum && fa == fb
	}
	return reflect.DeepEqual(a, b)
}
