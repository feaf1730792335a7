package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProdIsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(EnvProd, &buf)

	log.Debug("hidden")
	log.Info("server started", "address", ":8082")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "server started", entry["msg"])
	assert.Equal(t, ":8082", entry["address"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_StagingIsJSONAtDebug(t *testing.T) {
	var buf bytes.Buffer
	New(EnvStaging, &buf).Debug("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
}

func TestNew_DevFallbackIsText(t *testing.T) {
	for _, env := range []string{EnvDev, "", "local"} {
		var buf bytes.Buffer
		New(env, &buf).Debug("visible", "id", "a1")
		assert.Contains(t, buf.String(), "msg=visible")
		assert.Contains(t, buf.String(), "id=a1")
	}
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("dropped") })
}
