package ml

import (
	"errors"
	"fmt"
)

// ErrSchemaUnavailable is returned when neither the classifier nor a
// persisted feature-name list can supply the expected column order.
var ErrSchemaUnavailable = errors.New("expected feature columns unavailable")

// ArtifactLoadError wraps a failure to read or parse a serialized
// classifier, scaler, or feature-name artifact. Fatal at startup.
type ArtifactLoadError struct {
	Path string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("load artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}

// ScalingError reports that the fitted scaler rejected the numeric row.
type ScalingError struct {
	Err error
}

func (e *ScalingError) Error() string {
	return fmt.Sprintf("scale features: %v", e.Err)
}

func (e *ScalingError) Unwrap() error {
	return e.Err
}

// InferenceError reports that the classifier rejected the prepared row.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("predict: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
