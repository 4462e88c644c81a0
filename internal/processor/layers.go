package processor

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/woozymasta/geoframe/internal/config"
	"github.com/woozymasta/geoframe/internal/geo"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LayerFile returns where the processed layer is stored under dir.
func LayerFile(dir, name string) string {
	return filepath.Join(dir, name+Extension(FormatGeoJSON))
}

// LayerOptions builds decode and render options for a configured layer.
func LayerOptions(cfg *config.Config, l config.Layer) Options {
	return Options{
		Lat:               l.Lat,
		Lon:               l.Lon,
		TypeColumn:        l.TypeColumn,
		CoordinatesColumn: l.CoordinatesColumn,
		Properties:        l.Properties,
		Indent:            cfg.Indent,
		Minify:            cfg.Minify,
	}
}

// ProcessLayer fetches or reads the layer source, validates and filters it,
// and stores it as GeoJSON under dir. Existing files are kept unless force
// is set.
func ProcessLayer(ctx context.Context, client *http.Client, cfg *config.Config, l config.Layer, dir string, force bool) error {
	destFile := LayerFile(dir, l.Name)

	// Check if file exists
	if _, err := os.Stat(destFile); err == nil {
		if !force {
			log.Debug().Str("layer", l.Name).Msg("Layer file exists, skipping")
			return nil
		}
	}

	fc, err := LoadLayer(ctx, client, l)
	if err != nil {
		return errors.Wrapf(err, "layer %s", l.Name)
	}

	// every feature must hold a valid geometry before it is stored
	if _, err := fc.Geometries(); err != nil {
		return errors.Wrapf(err, "layer %s", l.Name)
	}

	if l.Filter != nil {
		before := len(fc.Features)
		fc = fc.Filter(l.Filter.Key, l.Filter.Values...)
		log.Debug().
			Str("layer", l.Name).
			Str("key", l.Filter.Key).
			Int("before", before).
			Int("after", len(fc.Features)).
			Msg("Layer filtered")
	}

	data, err := Encode(fc, FormatGeoJSON, LayerOptions(cfg, l))
	if err != nil {
		return errors.Wrapf(err, "layer %s", l.Name)
	}

	if err := WriteText(destFile, data); err != nil {
		return err
	}

	log.Info().
		Str("layer", l.Name).
		Str("path", destFile).
		Int("features", len(fc.Features)).
		Str("size", humanize.Bytes(uint64(len(data)))).
		Msg("Layer saved")
	return nil
}

// LoadLayer decodes the layer from its inline definition or its source.
func LoadLayer(ctx context.Context, client *http.Client, l config.Layer) (*geo.GeoJSONFeatureCollection, error) {
	// Inline Data Priority
	if l.Inline != nil {
		log.Info().
			Str("layer", l.Name).
			Msg("Using inline layer data from config")
		return geo.FromMap(l.Inline.ToMap())
	}

	format := DetectFormat(l.Source)
	if l.Format != "" {
		f, err := ParseFormat(l.Format)
		if err != nil {
			return nil, err
		}
		format = f
	}

	log.Info().
		Str("layer", l.Name).
		Str("source", l.Source).
		Str("format", string(format)).
		Msg("Processing layer")

	data, err := Load(ctx, client, l.Source)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("layer", l.Name).
		Str("size", humanize.Bytes(uint64(len(data)))).
		Msg("Layer source read")

	return Decode(format, data, Options{
		Lat:               l.Lat,
		Lon:               l.Lon,
		TypeColumn:        l.TypeColumn,
		CoordinatesColumn: l.CoordinatesColumn,
		Properties:        l.Properties,
	})
}
