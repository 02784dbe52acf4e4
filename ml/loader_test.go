package ml

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeArtifact(t *testing.T, dir, name string, payload interface{}) string {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeTestArtifacts(t *testing.T) ArtifactPaths {
	t.Helper()
	dir := t.TempDir()
	expected := expectedTestColumns()
	coefficients := make([]float64, len(expected))
	modelPath := writeArtifact(t, dir, "model.json", LogisticModel{
		Coefficients: coefficients,
		Intercept:    0.1,
		Features:     expected,
	})
	scaler := testScaler()
	scalerPath := writeArtifact(t, dir, "scaler.json", scaler)
	return ArtifactPaths{ModelKind: "logreg", ModelPath: modelPath, ScalerPath: scalerPath}
}

func TestArtifactPathsLoad(t *testing.T) {
	paths := writeTestArtifacts(t)
	preparer, err := paths.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := preparer.Classify(validRecord()); err != nil {
		t.Fatalf("loaded preparer should classify: %v", err)
	}
}

func TestArtifactPathsLoadMissingModel(t *testing.T) {
	paths := writeTestArtifacts(t)
	paths.ModelPath = filepath.Join(t.TempDir(), "missing.json")
	_, err := paths.Load()
	var loadErr *ArtifactLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected ArtifactLoadError, got %v", err)
	}
}

func TestArtifactPathsLoadUnsupportedKind(t *testing.T) {
	paths := writeTestArtifacts(t)
	paths.ModelKind = "random_forest"
	if _, err := paths.Load(); err == nil {
		t.Fatal("expected error for unsupported model kind")
	}
}

func TestArtifactPathsLoadFeatureNames(t *testing.T) {
	paths := writeTestArtifacts(t)
	dir := filepath.Dir(paths.ModelPath)
	paths.FeatureNamesPath = writeArtifact(t, dir, "feature_names.json", expectedTestColumns())

	preparer, err := paths.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	columns, err := preparer.ExpectedColumns()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(columns) != len(expectedTestColumns()) {
		t.Fatalf("unexpected column count %d", len(columns))
	}
}

func TestWatcherInitialLoadFailureIsFatal(t *testing.T) {
	paths := writeTestArtifacts(t)
	paths.ScalerPath = filepath.Join(t.TempDir(), "missing.json")
	if _, err := NewWatcher(paths, nil); err == nil {
		t.Fatal("expected initial load failure")
	}
}

func TestWatcherServesLoadedPreparer(t *testing.T) {
	watcher, err := NewWatcher(writeTestArtifacts(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer watcher.Close()

	if watcher.Preparer() == nil {
		t.Fatal("expected a loaded preparer")
	}
	if watcher.Generation() != 1 {
		t.Fatalf("expected generation 1, got %d", watcher.Generation())
	}
}
