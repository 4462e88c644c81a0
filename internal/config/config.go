// Package config handles configuration loading and shared data structures.
package config

import (
	"os"

	"github.com/woozymasta/geoframe/internal/geo"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Attribution string  `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Layers      []Layer `yaml:"layers" json:"layers"`
	Indent      int     `yaml:"indent,omitempty" json:"-"`
	Minify      bool    `yaml:"minify,omitempty" json:"-"`
}

// Layer is a single named feature collection and where it comes from.
type Layer struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	// defining GeoJSON directly in config.yaml
	Inline *geo.GeoJSONFeatureCollection `yaml:"geojson,omitempty" json:"-"`

	Name        string   `yaml:"name" json:"name"`
	Source      string   `yaml:"source,omitempty" json:"-"` // file path or http(s) URL
	Format      string   `yaml:"format,omitempty" json:"-"` // detected from Source when empty
	Attribution string   `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Aliases     []string `yaml:"aliases,omitempty" json:"-"`

	// tabular sources only
	Lat               string   `yaml:"lat,omitempty" json:"-"`
	Lon               string   `yaml:"lon,omitempty" json:"-"`
	TypeColumn        string   `yaml:"type_column,omitempty" json:"-"`
	CoordinatesColumn string   `yaml:"coordinates_column,omitempty" json:"-"`
	Properties        []string `yaml:"properties,omitempty" json:"properties,omitempty"`

	Filter *Filter `yaml:"filter,omitempty" json:"-"`

	Features int `yaml:"-" json:"features"`
}

// Filter keeps only features whose Key property has one of Values.
type Filter struct {
	Key    string        `yaml:"key"`
	Values []interface{} `yaml:"values"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	names := make(map[string]string)
	for i, l := range c.Layers {
		if l.Name == "" {
			return errors.Errorf("layer %d has no name", i)
		}
		if l.Source == "" && l.Inline == nil {
			return errors.Errorf("layer %s has neither source nor geojson", l.Name)
		}
		if l.Filter != nil && l.Filter.Key == "" {
			return errors.Errorf("layer %s filter has no key", l.Name)
		}

		for _, n := range append([]string{l.Name}, l.Aliases...) {
			if owner, ok := names[n]; ok {
				return errors.Errorf("layer name %q used by both %s and %s", n, owner, l.Name)
			}
			names[n] = l.Name
		}
	}
	return nil
}
