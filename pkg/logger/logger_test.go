package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.entry)
}

func TestLogger_Formatting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOptions(Options{Format: "json", Output: &buf})

	logger.Info("User %s logged in with ID %d", "john", 123)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "User john logged in with ID 123", line["msg"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "community-board", line["service"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOptions(Options{Level: "warn", Output: &buf})

	logger.Info("hidden")
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("Warning: %s count is %d", "items", 5)
	assert.Contains(t, buf.String(), "Warning: items count is 5")

	logger.Error("Failed to process request %d: %s", 404, "not found")
	assert.Contains(t, buf.String(), "Failed to process request 404: not found")
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOptions(Options{Format: "json", Output: &buf, Service: "api"})

	logger.WithFields(map[string]interface{}{"post_id": 7}).WithField("user_id", 3).Info("liked")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "api", line["service"])
	assert.EqualValues(t, 7, line["post_id"])
	assert.EqualValues(t, 3, line["user_id"])
}

func TestLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOptions(Options{Level: "chatty", Output: &buf})

	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
