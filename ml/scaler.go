package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// StandardScaler mirrors a scaler fitted offline: per-column mean and
// scale over the numeric feature columns, in the order they were fit.
type StandardScaler struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

// LoadScaler reads a scaler artifact from disk.
func LoadScaler(path string) (*StandardScaler, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, &ArtifactLoadError{Path: path, Err: err}
	}
	var scaler StandardScaler
	if err := json.Unmarshal(payload, &scaler); err != nil {
		return nil, &ArtifactLoadError{Path: path, Err: err}
	}
	if err := scaler.check(); err != nil {
		return nil, &ArtifactLoadError{Path: path, Err: err}
	}
	return &scaler, nil
}

func (s *StandardScaler) check() error {
	if len(s.Columns) == 0 {
		return errors.New("scaler has no columns")
	}
	if len(s.Mean) != len(s.Columns) || len(s.Scale) != len(s.Columns) {
		return errors.New("scaler columns/mean/scale length mismatch")
	}
	for i, scale := range s.Scale {
		if scale == 0 {
			return fmt.Errorf("zero scale for column %s", s.Columns[i])
		}
	}
	return nil
}

// Transform standardizes one row of numeric values ordered as s.Columns.
func (s *StandardScaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.Columns) {
		return nil, &ScalingError{Err: fmt.Errorf("expected %d values, got %d", len(s.Columns), len(values))}
	}
	scaled := make([]float64, len(values))
	for i, value := range values {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, &ScalingError{Err: fmt.Errorf("non-finite value for column %s", s.Columns[i])}
		}
		scaled[i] = (value - s.Mean[i]) / s.Scale[i]
	}
	return scaled, nil
}
