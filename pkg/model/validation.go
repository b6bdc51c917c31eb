package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"
)

// ErrInvalidInput wraps every validation failure reported before a solve starts
var ErrInvalidInput = errors.New("invalid input")

// Validate reports every problem of the input at once. Nothing is computed when it fails.
func Validate(input ModelInput) error {
	var err error

	if len(input.Points) == 0 {
		err = multierr.Append(err, errors.New("no points to cover"))
	}
	if len(input.Models) == 0 {
		err = multierr.Append(err, errors.New("no equipment models"))
	}

	pointIds := make(map[string]int, len(input.Points))
	for i, point := range input.Points {
		if strings.TrimSpace(point.Id) == "" {
			err = multierr.Append(err, fmt.Errorf("point %d has a blank id", i))
		} else if previous, ok := pointIds[point.Id]; ok {
			err = multierr.Append(err, fmt.Errorf("points %d and %d share the id %q", previous, i, point.Id))
		} else {
			pointIds[point.Id] = i
		}
		if !finite(point.X) || !finite(point.Y) {
			err = multierr.Append(err, fmt.Errorf("point %q has a non-finite coordinate (%v, %v)", point.Id, point.X, point.Y))
		}
	}

	modelNames := make(map[string]int, len(input.Models))
	for i, model := range input.Models {
		if strings.TrimSpace(model.Name) == "" {
			err = multierr.Append(err, fmt.Errorf("model %d has a blank name", i))
		} else if previous, ok := modelNames[model.Name]; ok {
			err = multierr.Append(err, fmt.Errorf("models %d and %d share the name %q", previous, i, model.Name))
		} else {
			modelNames[model.Name] = i
		}
		if !finite(model.Range) || model.Range <= 0 {
			err = multierr.Append(err, fmt.Errorf("model %q has a non-positive or non-finite range %v", model.Name, model.Range))
		}
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func finite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
