package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/woozymasta/geoframe/internal/config"
	"github.com/woozymasta/geoframe/internal/logger"
	"github.com/woozymasta/geoframe/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file"  default:"config.yaml"`
	Dir        string `short:"d" long:"dir"    env:"LAYERS_DIR"     description:"Directory of processed layers" default:"layers"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on"        default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on"           default:"8080"`
	Indent     int    `short:"i" long:"indent" env:"INDENT"         description:"Indent GeoJSON and YAML responses by this many spaces"`
	Minify     bool   `short:"m" long:"minify" env:"MINIFY"         description:"Minify GeoJSON and KML responses"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.Indent > 0 {
		cfg.Indent = opts.Indent
	}
	cfg.Minify = cfg.Minify || opts.Minify

	srvCtx := server.NewServerContext(cfg, opts.Dir)

	// Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/api/layers", srvCtx.HandleLayersList)
	mux.HandleFunc("/layers/", srvCtx.HandleLayer)

	handler := server.RequestLogger(mux)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("layers_loaded", len(cfg.Layers)).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
