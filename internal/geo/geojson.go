// Package geo handles geographic data structures, their validation and
// the GeoJSON text boundary.
package geo

// Type tags of the GeoJSON container objects.
const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
)

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Type       string                 `json:"type" yaml:"type"`
	Geometry   *GeoJSONGeometry       `json:"geometry" yaml:"geometry"`
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
}

// GeoJSONGeometry represents the geometry of a feature (Point, Polygon, etc.).
// Coordinates holds the nested [Lon, Lat] payload; features built from a
// Geometry carry the typed Coordinate shapes, generic features carry
// whatever the caller supplied.
type GeoJSONGeometry struct {
	Type        string      `json:"type" yaml:"type"`
	Coordinates interface{} `json:"coordinates" yaml:"coordinates"`
}

// clone copies the feature and its property map. The coordinate payload is
// shared and treated as read-only.
func (f GeoJSONFeature) clone() GeoJSONFeature {
	out := GeoJSONFeature{
		Type:       f.Type,
		Properties: copyProperties(f.Properties),
	}
	if f.Geometry != nil {
		g := *f.Geometry
		out.Geometry = &g
	}
	return out
}

// copyProperties copies props with numbers normalized, so that a property
// map survives an encode and decode unchanged. Values that cannot be
// normalized are kept as given.
func copyProperties(props map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		if n, err := normalizeValue(v); err == nil {
			out[k] = n
		} else {
			out[k] = v
		}
	}
	return out
}
