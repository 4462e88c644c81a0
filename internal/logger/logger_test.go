package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	Logger{Level: "warn", Format: "json"}.setup(&buf)

	log.Info().Msg("hidden")
	log.Warn().Str("layer", "a").Msg("shown")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "a", entry["layer"])
	require.Equal(t, "shown", entry["message"])
}

func TestSetupText(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	Logger{Level: "bogus", NoColor: true}.setup(&buf)
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	log.Info().Str("layer", "a").Msg("hello")
	require.Contains(t, buf.String(), "hello")
	require.Contains(t, buf.String(), "layer=a")
}
