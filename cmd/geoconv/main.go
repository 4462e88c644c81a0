package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geoframe/internal/geo"
	"github.com/woozymasta/geoframe/internal/logger"
	"github.com/woozymasta/geoframe/internal/processor"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input  []string `short:"i" long:"in"   description:"Input file path or URL, repeat to merge several. Reads stdin if empty"`
	Output string   `short:"o" long:"out"  description:"Output file path, .gz is compressed. Writes to stdout if empty"`
	From   string   `long:"from" description:"Input format, detected from the input name when empty" choice:"geojson" choice:"yaml" choice:"kml" choice:"csv"`
	To     string   `long:"to"   description:"Output format, detected from the output name when empty" choice:"geojson" choice:"yaml" choice:"kml" choice:"csv"`

	Lat               string   `long:"lat"        description:"CSV latitude column, builds points together with --lon"`
	Lon               string   `long:"lon"        description:"CSV longitude column"`
	TypeColumn        string   `long:"type-column" description:"CSV geometry type column" default:"geometry.type"`
	CoordinatesColumn string   `long:"coordinates-column" description:"CSV geometry coordinates column" default:"geometry.coordinates"`
	Properties        []string `short:"P" long:"property" description:"Property column to keep, repeatable. All columns when empty"`

	FilterKey    string   `short:"k" long:"filter-key"   description:"Keep only features whose property has one of --filter-value"`
	FilterValues []string `short:"v" long:"filter-value" description:"Accepted property value, repeatable"`

	Indent int  `long:"indent" description:"Indent GeoJSON and YAML output by this many spaces" default:"2"`
	Minify bool `short:"m" long:"minify" description:"Minify GeoJSON and KML output"`
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

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

	if err := run(context.Background(), opts); err != nil {
		log.Fatal().Err(err).Msg("Conversion failed")
	}
}

func run(ctx context.Context, opts Options) error {
	if opts.FilterKey != "" && len(opts.FilterValues) == 0 {
		return errors.New("--filter-key needs at least one --filter-value")
	}

	decodeOpts := processor.Options{
		Lat:               opts.Lat,
		Lon:               opts.Lon,
		TypeColumn:        opts.TypeColumn,
		CoordinatesColumn: opts.CoordinatesColumn,
		Properties:        opts.Properties,
	}

	fc, err := readInputs(ctx, opts, decodeOpts)
	if err != nil {
		return err
	}

	if _, err := fc.Geometries(); err != nil {
		return errors.Wrap(err, "invalid input")
	}

	if opts.FilterKey != "" {
		fc = fc.Filter(opts.FilterKey, processor.FilterValues(opts.FilterValues)...)
	}

	to := processor.FormatGeoJSON
	if opts.To != "" {
		to = processor.Format(opts.To)
	} else if opts.Output != "" {
		to = processor.DetectFormat(opts.Output)
	}

	data, err := processor.Encode(fc, to, processor.Options{
		Properties: opts.Properties,
		Indent:     opts.Indent,
		Minify:     opts.Minify,
	})
	if err != nil {
		return errors.Wrapf(err, "encode %s", to)
	}

	if opts.Output == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	if err := processor.WriteText(opts.Output, data); err != nil {
		return err
	}

	log.Info().
		Int("features", len(fc.Features)).
		Str("path", opts.Output).
		Str("format", string(to)).
		Str("size", humanize.Bytes(uint64(len(data)))).
		Msg("Successfully converted")
	return nil
}

// readInputs decodes every input concurrently and merges them in the order
// given on the command line.
func readInputs(ctx context.Context, opts Options, decodeOpts processor.Options) (*geo.GeoJSONFeatureCollection, error) {
	if len(opts.Input) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(err, "read stdin")
		}
		from := processor.FormatGeoJSON
		if opts.From != "" {
			from = processor.Format(opts.From)
		}
		return processor.Decode(from, data, decodeOpts)
	}

	parts := make([]*geo.GeoJSONFeatureCollection, len(opts.Input))
	g, ctx := errgroup.WithContext(ctx)
	for i, input := range opts.Input {
		g.Go(func() error {
			data, err := processor.Load(ctx, httpClient, input)
			if err != nil {
				return errors.Wrapf(err, "read %s", input)
			}

			from := processor.DetectFormat(input)
			if opts.From != "" {
				from = processor.Format(opts.From)
			}

			fc, err := processor.Decode(from, data, decodeOpts)
			if err != nil {
				return errors.Wrapf(err, "decode %s", input)
			}
			log.Debug().
				Str("input", input).
				Str("format", string(from)).
				Int("features", len(fc.Features)).
				Msg("Input decoded")

			parts[i] = fc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fc := geo.NewFeatureCollection()
	fc.Merge(parts...)
	return fc, nil
}
