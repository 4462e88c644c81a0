package server

import (
	"os"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geoframe/internal/config"
	"github.com/woozymasta/geoframe/internal/geo"
	"github.com/woozymasta/geoframe/internal/processor"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config            *config.Config
	LayerNameResolver map[string]string
	Layers            map[string]*geo.GeoJSONFeatureCollection
	Options           processor.Options
}

// NewServerContext loads the processed layers found in dir and sets up the
// name resolver. Layers without a readable, valid file are left out.
func NewServerContext(cfg *config.Config, dir string) *ServerContext {
	log.Info().Int("config_layers_count", len(cfg.Layers)).Msg("Initializing server context")

	resolver := make(map[string]string)
	layers := make(map[string]*geo.GeoJSONFeatureCollection)
	validLayers := make([]config.Layer, 0, len(cfg.Layers))

	for i := range cfg.Layers {
		layer := &cfg.Layers[i]

		if layer.Attribution == "" {
			layer.Attribution = cfg.Attribution
		}

		path := processor.LayerFile(dir, layer.Name)
		data, err := processor.ReadText(path)
		if os.IsNotExist(err) {
			log.Warn().
				Str("layer", layer.Name).
				Str("path", path).
				Msg("Skipping layer: file not found, run the loader first")
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("layer", layer.Name).Msg("Skipping layer: read failed")
			continue
		}

		fc, err := geo.Decode(data)
		if err == nil {
			_, err = fc.Geometries()
		}
		if err != nil {
			log.Error().Err(err).Str("layer", layer.Name).Msg("Skipping layer: invalid GeoJSON")
			continue
		}

		if layer.Properties == nil {
			layer.Properties = fc.PropertyKeys()
		}
		layer.Features = len(fc.Features)
		layers[layer.Name] = fc

		// Setup Resolver
		resolver[layer.Name] = layer.Name
		for _, alias := range layer.Aliases {
			resolver[alias] = layer.Name
		}

		log.Debug().
			Str("layer", layer.Name).
			Int("features", layer.Features).
			Msg("Layer validated and added to context")

		validLayers = append(validLayers, *layer)
	}

	cfg.Layers = validLayers

	sort.Slice(cfg.Layers, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if cfg.Layers[i].Index != nil {
			idxI = *cfg.Layers[i].Index
		}
		if cfg.Layers[j].Index != nil {
			idxJ = *cfg.Layers[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return cfg.Layers[i].Name < cfg.Layers[j].Name
	})

	log.Info().
		Int("valid_layers_count", len(cfg.Layers)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:            cfg,
		LayerNameResolver: resolver,
		Layers:            layers,
		Options: processor.Options{
			Indent: cfg.Indent,
			Minify: cfg.Minify,
		},
	}
}
