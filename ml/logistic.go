package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// churnThreshold converts a churn probability into a binary label.
const churnThreshold = 0.5

// LogisticModel is a logistic-regression classifier exported by the
// offline trainer as a JSON artifact.
type LogisticModel struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Features     []string  `json:"feature_names,omitempty"`
}

func (m *LogisticModel) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return &ArtifactLoadError{Path: path, Err: err}
	}
	var loaded LogisticModel
	if err := json.Unmarshal(payload, &loaded); err != nil {
		return &ArtifactLoadError{Path: path, Err: err}
	}
	if len(loaded.Coefficients) == 0 {
		return &ArtifactLoadError{Path: path, Err: errors.New("model has no coefficients")}
	}
	if len(loaded.Features) > 0 && len(loaded.Features) != len(loaded.Coefficients) {
		return &ArtifactLoadError{Path: path, Err: errors.New("feature_names/coefficients length mismatch")}
	}
	*m = loaded
	return nil
}

func (m *LogisticModel) Predict(features []float64) (int, float64, error) {
	if len(m.Coefficients) == 0 {
		return 0, 0, errors.New("model not loaded")
	}
	if len(features) != len(m.Coefficients) {
		return 0, 0, fmt.Errorf("expected %d features, got %d", len(m.Coefficients), len(features))
	}
	logit := m.Intercept
	for i, value := range features {
		logit += m.Coefficients[i] * value
	}
	probability := 1 / (1 + math.Exp(-logit))
	label := 0
	if probability >= churnThreshold {
		label = 1
	}
	return label, probability, nil
}

// FeatureNames returns the training-time column order, or nil when the
// artifact does not carry one.
func (m *LogisticModel) FeatureNames() []string {
	return m.Features
}
