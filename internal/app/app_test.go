package app

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.Bind(fs)

	err := fs.Parse([]string{
		"-width", "64",
		"-seed", "18446744073709551615",
		"-set", "hydraulic.max_steps=12",
		"-set", "flow.sea_level = 0.3",
		"-describe",
	})
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 256, cfg.Height)
	assert.Equal(t, uint64(18446744073709551615), cfg.Seed)
	assert.True(t, cfg.Describe)
	assert.Equal(t, map[string]string{
		"hydraulic.max_steps": "12",
		"flow.sea_level":      "0.3",
	}, cfg.Overrides.Map())
	assert.Equal(t, "hydraulic.max_steps=12,flow.sea_level = 0.3", cfg.Overrides.String())
}

func TestKVListSkipsMalformed(t *testing.T) {
	l := KVList{"novalue", "a=1", "a=2"}
	assert.Equal(t, map[string]string{"a": "2"}, l.Map())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])

	buf.Reset()
	NewLogger("bogus", "text", &buf).Debug("dropped")
	assert.Empty(t, buf.String())
}
