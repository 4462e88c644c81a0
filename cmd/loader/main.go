package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geoframe/internal/config"
	"github.com/woozymasta/geoframe/internal/logger"
	"github.com/woozymasta/geoframe/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Dir         string   `short:"d" long:"dir"         env:"LAYERS_DIR"  description:"Output directory for processed layers" default:"layers"`
	Limit       []string `short:"l" long:"limit"       env:"LIMIT_NAMES" description:"Limit processing to specific layer names"`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrency" default:"4"`
	Timeout     int      `short:"t" long:"timeout"     env:"TIMEOUT"     description:"HTTP timeout in seconds" default:"30"`
	Force       bool     `short:"f" long:"force"       description:"Force overwrite of existing files"`
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 30
	}
	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: time.Duration(opts.Timeout) * time.Second,
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	// Filter layers if limit is set
	layersToProcess := cfg.Layers
	if len(opts.Limit) > 0 {
		layersToProcess = make([]config.Layer, 0)
		availableLayers := make(map[string]config.Layer)
		for _, l := range cfg.Layers {
			availableLayers[l.Name] = l
		}

		seen := make(map[string]bool)

		for _, limitName := range opts.Limit {
			if seen[limitName] {
				continue
			}
			seen[limitName] = true

			if l, ok := availableLayers[limitName]; ok {
				layersToProcess = append(layersToProcess, l)
			} else {
				log.Error().
					Str("name", limitName).
					Msg("Layer specified in --limit not found in configuration")
			}
		}
	}

	log.Info().
		Int("layers_total", len(cfg.Layers)).
		Int("layers_queued", len(layersToProcess)).
		Int("concurrency", opts.Concurrency).
		Msg("Starting loader")

	// a failed layer is logged and does not stop the others
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(opts.Concurrency)

	failed := make([]bool, len(layersToProcess))
	for i, layer := range layersToProcess {
		g.Go(func() error {
			if err := processor.ProcessLayer(ctx, client, cfg, layer, opts.Dir, opts.Force); err != nil {
				log.Error().Err(err).Str("layer", layer.Name).Msg("Failed to process layer")
				failed[i] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	failures := 0
	for _, f := range failed {
		if f {
			failures++
		}
	}
	if failures > 0 {
		log.Fatal().Int("failed", failures).Msg("Loader finished with errors")
	}

	log.Info().Msg("Loader finished successfully")
}
