package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/placement/pkg/model"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("00:01:01.12"))
	assert.Equal(t, int64(60*60*1000+60*1000+1000+120), parseDuration("01:01:01.12"))
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("1:01.12"))
	assert.Equal(t, int64(120), parseDuration("0:00.12"))
	assert.Equal(t, int64(120), parseDuration("00:00:00.12"))
}

func TestParseTimeLines(t *testing.T) {
	assert.Equal(t, int64(1120), parseDurationLine("\tElapsed (wall clock) time (h:mm:ss or m:ss): 0:01.12"))
	assert.Equal(t, float32(2), parseMemoryLine("\tMaximum resident set size (kbytes): 2048"))
	assert.Equal(t, int64(97), parseCpuPercentageLine("\tPercent of CPU this job got: 97%"))
}

func TestInstancesAreReproducibleAndDecodable(t *testing.T) {
	assert.Equal(t, randomInstance(20, 1), randomInstance(20, 1))
	assert.NotEqual(t, randomInstance(20, 1), randomInstance(20, 2))

	instances := getInstances(t.TempDir())
	require.Len(t, instances, len(sizes)*seedsPerSize)

	for _, instance := range instances {
		input, err := model.InputFromFile(instance.Name)
		require.NoError(t, err)
		assert.Len(t, input.Points, instance.Points)
		assert.Len(t, input.Models, instance.Models)
		assert.NoError(t, model.Validate(input))
	}
}
