package ml

import (
	"math"
	"testing"
)

func TestLogisticPredict(t *testing.T) {
	model := &LogisticModel{
		Coefficients: []float64{1, -2},
		Intercept:    0.5,
		Features:     []string{"a", "b"},
	}

	label, probability, err := model.Predict([]float64{2, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 1 / (1 + math.Exp(-0.5))
	if math.Abs(probability-want) > 1e-12 {
		t.Fatalf("expected probability %f, got %f", want, probability)
	}
	if label != 1 {
		t.Fatalf("expected label 1 at probability %f, got %d", probability, label)
	}

	label, probability, err = model.Predict([]float64{-2, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected label 0 at probability %f, got %d", probability, label)
	}
}

func TestLogisticPredictDeterministic(t *testing.T) {
	model := &LogisticModel{Coefficients: []float64{0.3, -0.7, 1.1}, Intercept: -0.2}
	features := []float64{1, 2, 3}

	firstLabel, firstProb, err := model.Predict(features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		label, probability, err := model.Predict(features)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if label != firstLabel || probability != firstProb {
			t.Fatal("predict must be deterministic for the same vector")
		}
	}
}

func TestLogisticPredictWidthMismatch(t *testing.T) {
	model := &LogisticModel{Coefficients: []float64{1, 2, 3}}
	if _, _, err := model.Predict([]float64{1}); err == nil {
		t.Fatal("expected error for width mismatch")
	}
}

func TestLogisticPredictUnloaded(t *testing.T) {
	model := &LogisticModel{}
	if _, _, err := model.Predict(nil); err == nil {
		t.Fatal("expected error for unloaded model")
	}
}
