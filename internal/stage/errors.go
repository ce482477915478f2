package stage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrMissingStage  = errors.New("missing stage output")
	ErrDegenerate    = errors.New("degenerate input")
)

var markers = []error{ErrMissingStage, ErrDegenerate, ErrConfiguration, ErrNotFound, ErrValidation}

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker. The marker should be one of the exported sentinel
// errors above; nil defaults to ErrValidation.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Missing reports that name cannot run because the output of an earlier
// stage is absent.
func Missing(name, needs Name) error {
	return Wrap(ErrMissingStage, string(name), "load "+string(needs)+" output",
		fmt.Sprintf("run the %s step first (ineta run --steps %s+)", needs, needs), nil)
}

// Details is the classification of an error produced by Wrap.
type Details struct {
	Marker  error
	Message string
}

// Describe classifies err by its marker and returns the message without the
// marker prefix.
func Describe(err error) Details {
	if err == nil {
		return Details{}
	}
	msg := err.Error()
	for _, marker := range markers {
		if errors.Is(err, marker) {
			return Details{
				Marker:  marker,
				Message: strings.TrimSpace(strings.TrimPrefix(msg, marker.Error()+":")),
			}
		}
	}
	return Details{Message: msg}
}

// Kind returns a short label for the marker carried by err.
func Kind(err error) string {
	switch Describe(err).Marker {
	case ErrMissingStage:
		return "missing_stage"
	case ErrDegenerate:
		return "degenerate"
	case ErrConfiguration:
		return "configuration"
	case ErrNotFound:
		return "not_found"
	case ErrValidation:
		return "validation"
	default:
		return "internal"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
