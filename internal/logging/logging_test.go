package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLoggerWritesFields(t *testing.T) {
	var buffer bytes.Buffer
	logger := New(Config{Level: "debug", Format: "json", Output: &buffer})

	logger.With(String("component", "search")).Info(context.Background(), "solved", Int("selected", 3), Error(errors.New("boom")))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &record))
	assert.Equal(t, "solved", record["msg"])
	assert.Equal(t, "search", record["component"])
	assert.Equal(t, float64(3), record["selected"])
	assert.Equal(t, "boom", record["error"])
}

func TestLevelFiltering(t *testing.T) {
	var buffer bytes.Buffer
	logger := New(Config{Level: "warn", Output: &buffer})

	logger.Info(context.Background(), "hidden")
	assert.Zero(t, buffer.Len())

	logger.Warn(context.Background(), "shown")
	assert.Contains(t, buffer.String(), "shown")
}

func TestWithRunId(t *testing.T) {
	var buffer bytes.Buffer
	logger, runId := WithRunId(New(Config{Format: "json", Output: &buffer}))
	assert.NotEmpty(t, runId)

	logger.Info(context.Background(), "hello")
	assert.Contains(t, buffer.String(), runId)

	noop, noopRunId := WithRunId(nil)
	assert.NotNil(t, noop)
	assert.NotEqual(t, runId, noopRunId)
}
