package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDirectory = "testdata/"

func TestInputFromJson(t *testing.T) {
	//** Act
	input, err := InputFromFile(testDirectory + "corridor.json")

	//** Assert
	require.NoError(t, err)
	assert.Len(t, input.Points, 6)
	assert.Equal(t, Point{Id: "p2", X: 60, Y: 0, SiteEligible: true}, input.Points[2])
	assert.Equal(t, []EquipmentModel{{Name: "short", Range: 30}, {Name: "long", Range: 60}}, input.Models)
	require.NotNil(t, input.Budget.MaxNodes)
	assert.Equal(t, uint64(10000), *input.Budget.MaxNodes)
	assert.Nil(t, input.Budget.MaxTimeMs)
}

func TestInputFromYaml(t *testing.T) {
	//** Act
	input, err := InputFromFile(testDirectory + "corridor.yaml")

	//** Assert
	require.NoError(t, err)
	assert.Len(t, input.Points, 6)
	assert.False(t, input.Points[5].SiteEligible)
	assert.Equal(t, "long", input.Models[1].Name)
	assert.Equal(t, 62.5, input.Models[1].Range) // Given in kilometres
}

func TestInputFromBytesAcceptsNumericIds(t *testing.T) {
	input, err := InputFromBytes([]byte(`{"points": [{"id": 7, "x": 1.5, "y": -2}], "models": [{"name": "m", "range": 3}]}`))

	require.NoError(t, err)
	assert.Equal(t, "7", input.Points[0].Id)
	assert.Equal(t, -2.0, input.Points[0].Y)
}

func TestInputFromBytesRejectsMalformedJson(t *testing.T) {
	_, err := InputFromBytes([]byte(`{"points": [`))
	assert.Error(t, err)
}

func TestInputFromMissingFile(t *testing.T) {
	_, err := InputFromFile(testDirectory + "missing.json")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := ModelInput{
		Points: []Point{{Id: "a", SiteEligible: true}, {Id: "b", X: 3}},
		Models: []EquipmentModel{{Name: "m", Range: 1}},
	}

	t.Run("Valid input", func(t *testing.T) {
		assert.NoError(t, Validate(valid))
	})

	cases := map[string]struct {
		input    ModelInput
		problems []string
	}{
		"Empty points": {
			input:    ModelInput{Models: valid.Models},
			problems: []string{"no points"},
		},
		"Empty models": {
			input:    ModelInput{Points: valid.Points},
			problems: []string{"no equipment models"},
		},
		"Bad ranges": {
			input: ModelInput{Points: valid.Points, Models: []EquipmentModel{
				{Name: "zero", Range: 0},
				{Name: "negative", Range: -4},
				{Name: "infinite", Range: math.Inf(1)},
			}},
			problems: []string{`"zero"`, `"negative"`, `"infinite"`},
		},
		"Duplicate and blank identities": {
			input: ModelInput{
				Points: []Point{{Id: "a"}, {Id: "a"}, {Id: "  "}},
				Models: []EquipmentModel{{Name: "m", Range: 1}, {Name: "m", Range: 2}, {Name: "", Range: 2}},
			},
			problems: []string{`share the id "a"`, "point 2 has a blank id", `share the name "m"`, "model 2 has a blank name"},
		},
		"Non-finite coordinates": {
			input: ModelInput{
				Points: []Point{{Id: "a", X: math.NaN()}, {Id: "b", Y: math.Inf(-1)}},
				Models: valid.Models,
			},
			problems: []string{`point "a"`, `point "b"`},
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := Validate(c.input)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			for _, problem := range c.problems {
				assert.Contains(t, err.Error(), problem)
			}
		})
	}
}
