package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCorruption(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "debug", Output: &buf}).ReaderLogger("main")

	l.LogCorruption("out_of_range", 99, 40, nil)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "reader", line["component"])
	assert.Equal(t, "main", line["dictionary"])
	assert.Equal(t, "out_of_range", line["reason"])
	assert.Equal(t, float64(99), line["position"])
	assert.Equal(t, float64(40), line["tail_position"])
	assert.Equal(t, "triedict", line["service"])
}

func TestLogStoreFailure(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "info", Output: &buf})

	l.LogStoreFailure(7, 12, errors.New("leveldb: closed"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "probability_store_failure", line["event"])
	assert.Equal(t, float64(7), line["terminal_id"])
	assert.Equal(t, float64(12), line["position"])
	assert.Equal(t, "leveldb: closed", line["error"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "error", Output: &buf})

	l.Info("hidden").Send()
	assert.Zero(t, buf.Len())

	l.LogGrpcRequest("/triedict.v1.NodeReader/ResolveNode", time.Millisecond, errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestNop(t *testing.T) {
	l := Nop()
	l.LogCorruption("x", 1, 2, nil)
	assert.Equal(t, zerolog.Disabled, l.GetZerolog().GetLevel())
}
