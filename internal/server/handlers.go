// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geoframe/internal/processor"
)

// HandleLayersList serves the JSON description of available layers.
func (s *ServerContext) HandleLayersList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(s.Config.Layers)
}

// HandleLayer serves a layer in the format named by its extension.
// Path: /layers/{name}.{geojson|json|yaml|kml|csv}
//
// The optional key and value query parameters filter the features; value
// may repeat to match any of several values.
func (s *ServerContext) HandleLayer(w http.ResponseWriter, r *http.Request) {
	base := strings.TrimPrefix(r.URL.Path, "/layers/")
	if base == r.URL.Path || strings.Contains(base, "/") {
		http.NotFound(w, r)
		return
	}

	name, format, ok := splitLayerPath(base)
	if !ok {
		http.NotFound(w, r)
		return
	}

	realName, ok := s.LayerNameResolver[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	fc := s.Layers[realName]

	query := r.URL.Query()
	if key := query.Get("key"); key != "" {
		values := query["value"]
		if len(values) == 0 {
			http.Error(w, "value parameter is required with key", http.StatusBadRequest)
			return
		}
		fc = fc.Filter(key, processor.FilterValues(values)...)
	}

	data, err := processor.Encode(fc, format, s.Options)
	if err != nil {
		log.Error().Err(err).Str("layer", realName).Str("format", string(format)).Msg("Failed to encode layer")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	etag := `"` + strconv.FormatUint(xxhash.Sum64(data), 16) + `"`

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", processor.MediaType(format))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(data)
}

func splitLayerPath(base string) (string, processor.Format, bool) {
	for _, f := range processor.Formats {
		if name, ok := strings.CutSuffix(base, processor.Extension(f)); ok {
			return name, f, name != ""
		}
	}
	if name, ok := strings.CutSuffix(base, ".json"); ok {
		return name, processor.FormatGeoJSON, name != ""
	}
	return "", "", false
}
