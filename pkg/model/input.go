package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"sigs.k8s.io/yaml"
)

type Point struct {
	Id           string  `json:"id"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	SiteEligible bool    `json:"siteEligible"`
}

type EquipmentModel struct {
	Name  string  `json:"name"`
	Range float64 `json:"range"`
}

// SearchBudget bounds the exact search; nil fields are unlimited
type SearchBudget struct {
	MaxNodes  *uint64 `json:"maxNodes,omitempty"`
	MaxTimeMs *uint64 `json:"maxTimeMs,omitempty"`
}

type ModelInput struct {
	Points []Point
	Models []EquipmentModel
	Budget SearchBudget
}

type RawEquipmentModel struct {
	Name    string
	Range   float64
	RangeKm float64 `mapstructure:"rangeKm"`
}

type RawModelInput struct {
	Points []Point
	Models []RawEquipmentModel
	Budget SearchBudget
}

// InputFromFile decodes a JSON or YAML input file, chosen by extension
func InputFromFile(file string) (ModelInput, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return InputFromYaml(file)
	default:
		return InputFromJson(file)
	}
}

func InputFromJson(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot read input file: %v", err)
	}
	return InputFromBytes(bytes)
}

func InputFromYaml(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot read input file: %v", err)
	}
	bytes, err = yaml.YAMLToJSON(bytes)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot convert yaml input: %v", err)
	}
	return InputFromBytes(bytes)
}

// InputFromBytes decodes a JSON document into a ModelInput
func InputFromBytes(bytes []byte) (ModelInput, error) {
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, err
	}

	var rawInput RawModelInput
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rawInput,
		WeaklyTypedInput: true, // Allows numeric ids
	})
	if err != nil {
		return ModelInput{}, err
	}
	if err := decoder.Decode(inputJson); err != nil {
		return ModelInput{}, fmt.Errorf("cannot decode input: %v", err)
	}
	return ProcessRawInput(rawInput), nil
}

func ProcessRawInput(rawInput RawModelInput) ModelInput {
	return ModelInput{
		Points: rawInput.Points,
		Models: lo.Map(rawInput.Models, func(model RawEquipmentModel, _ int) EquipmentModel {
			// Ranges given in kilometres are converted to the metric planar frame of the coordinates
			if model.Range == 0 && model.RangeKm != 0 {
				return EquipmentModel{Name: model.Name, Range: model.RangeKm * 1000}
			}
			return EquipmentModel{Name: model.Name, Range: model.Range}
		}),
		Budget: rawInput.Budget,
	}
}
