package ml

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeTreeArtifact(t *testing.T, artifact treeArtifact) string {
	t.Helper()
	payload, err := json.Marshal(artifact)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestChurnTreePredict(t *testing.T) {
	path := writeTreeArtifact(t, treeArtifact{
		FeatureNames: []string{"Lifetime", "Age"},
		Nodes: []TreeNode{
			{FeatureIdx: 0, Threshold: 0.5, LeftChild: 1, RightChild: 2},
			{IsLeaf: true, Probability: 0.9},
			{IsLeaf: true, Probability: 0.1},
		},
	})

	tree := &ChurnTree{}
	if err := tree.Load(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	label, probability, err := tree.Predict([]float64{0.2, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 1 || probability != 0.9 {
		t.Fatalf("expected churn leaf, got label=%d probability=%f", label, probability)
	}

	label, probability, err = tree.Predict([]float64{0.8, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 || probability != 0.1 {
		t.Fatalf("expected loyal leaf, got label=%d probability=%f", label, probability)
	}

	if names := tree.FeatureNames(); len(names) != 2 || names[0] != "Lifetime" {
		t.Fatalf("unexpected feature names: %v", names)
	}
}

func TestChurnTreePredictFeatureOutOfRange(t *testing.T) {
	path := writeTreeArtifact(t, treeArtifact{
		Nodes: []TreeNode{
			{FeatureIdx: 5, Threshold: 0, LeftChild: 1, RightChild: 2},
			{IsLeaf: true, Probability: 0},
			{IsLeaf: true, Probability: 1},
		},
	})
	tree := &ChurnTree{}
	if err := tree.Load(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := tree.Predict([]float64{1, 2}); err == nil {
		t.Fatal("expected error for feature index out of range")
	}
}

func TestChurnTreeLoadRejectsBadChildren(t *testing.T) {
	path := writeTreeArtifact(t, treeArtifact{
		Nodes: []TreeNode{
			{FeatureIdx: 0, Threshold: 0, LeftChild: 7, RightChild: 1},
			{IsLeaf: true, Probability: 0.5},
		},
	})
	tree := &ChurnTree{}
	if err := tree.Load(path); err == nil {
		t.Fatal("expected load error for child index out of range")
	}
}
