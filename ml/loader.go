package ml

import (
	"encoding/json"
	"errors"
	"os"
)

// ArtifactPaths locates the serialized inference artifacts on disk.
// FeatureNamesPath is optional; it backs classifiers whose artifact does
// not carry its own schema.
type ArtifactPaths struct {
	ModelKind        string
	ModelPath        string
	ScalerPath       string
	FeatureNamesPath string
}

// Load reads all artifacts and assembles a ready Preparer.
func (a ArtifactPaths) Load() (*Preparer, error) {
	model, err := LoadClassifier(a.ModelKind, a.ModelPath)
	if err != nil {
		return nil, err
	}
	scaler, err := LoadScaler(a.ScalerPath)
	if err != nil {
		return nil, err
	}
	var fallback []string
	if a.FeatureNamesPath != "" {
		fallback, err = loadFeatureNames(a.FeatureNamesPath)
		if err != nil {
			return nil, err
		}
	}
	return NewPreparer(model, scaler, fallback), nil
}

func loadFeatureNames(path string) ([]string, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, &ArtifactLoadError{Path: path, Err: err}
	}
	var names []string
	if err := json.Unmarshal(payload, &names); err != nil {
		return nil, &ArtifactLoadError{Path: path, Err: err}
	}
	if len(names) == 0 {
		return nil, &ArtifactLoadError{Path: path, Err: errors.New("feature-name list is empty")}
	}
	return names, nil
}
