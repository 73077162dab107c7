package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "debug", true)

	log.WithField("user", "alice01").Info("registered")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "registered", entry["msg"])
	assert.Equal(t, "alice01", entry["user"])
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewWithOutput_TextAndUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "chatty", false)

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")

	buf.Reset()
	log.Debug("hidden")
	assert.Empty(t, buf.String())
}
