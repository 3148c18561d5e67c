package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleINI = `
[mode]
online = false
offline = true
verbose = false ; trailing comment

[file]
delimiter = ,
decimation_path = dec.csv
`

func TestParse_SectionsKeysAndComments(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sampleINI))
	require.NoError(t, err)

	online, err := cfg.Bool("mode", "online")
	require.NoError(t, err)
	assert.False(t, online)

	offline, err := cfg.Bool("mode", "offline")
	require.NoError(t, err)
	assert.True(t, offline)

	path, err := cfg.String("file", "decimation_path")
	require.NoError(t, err)
	assert.Equal(t, "dec.csv", path)

	delim, err := cfg.Char("file", "delimiter")
	require.NoError(t, err)
	assert.Equal(t, ',', delim)
}

func TestParse_ValueKindFallbackOrder(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[s]\nf = 3.5\nc = x\nw = hello\n"))
	require.NoError(t, err)

	f, err := cfg.Float64("s", "f")
	require.NoError(t, err)
	assert.Equal(t, 3.5, f)

	c, err := cfg.Char("s", "c")
	require.NoError(t, err)
	assert.Equal(t, 'x', c)

	w, err := cfg.String("s", "w")
	require.NoError(t, err)
	assert.Equal(t, "hello", w)
}

func TestConfig_MissingSectionAndKey(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[mode]\nonline = true\n"))
	require.NoError(t, err)

	_, err = cfg.Bool("mode", "nope")
	require.Error(t, err)
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "mode.nope", cfgErr.Path)

	_, err = cfg.Bool("nosuch", "key")
	require.Error(t, err)
}

func TestConfig_SetAndWriteRoundTrip(t *testing.T) {
	cfg := &Config{}
	cfg.SetFloat64("min_intensities", "detector_1", -0.5)
	cfg.SetString("mode", "phases_swapped", "true")

	var buf bytes.Buffer
	require.NoError(t, cfg.Write(&buf))

	reparsed, err := Parse(&buf)
	require.NoError(t, err)

	v, err := reparsed.Float64("min_intensities", "detector_1")
	require.NoError(t, err)
	assert.Equal(t, -0.5, v)

	swapped, err := reparsed.Bool("mode", "phases_swapped")
	require.NoError(t, err)
	assert.True(t, swapped)
}
