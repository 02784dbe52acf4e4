package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ChurnTree is a binary decision tree exported by the offline trainer.
// Nodes are stored in preorder; children are indices into the node slice.
type ChurnTree struct {
	nodes    []TreeNode
	features []string
}

type TreeNode struct {
	FeatureIdx  int     `json:"feature_idx"`
	Threshold   float64 `json:"threshold"`
	LeftChild   int     `json:"left_child"`
	RightChild  int     `json:"right_child"`
	Probability float64 `json:"probability"`
	IsLeaf      bool    `json:"is_leaf"`
}

type treeArtifact struct {
	FeatureNames []string   `json:"feature_names,omitempty"`
	Nodes        []TreeNode `json:"nodes"`
}

func (t *ChurnTree) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return &ArtifactLoadError{Path: path, Err: err}
	}
	var artifact treeArtifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return &ArtifactLoadError{Path: path, Err: err}
	}
	if len(artifact.Nodes) == 0 {
		return &ArtifactLoadError{Path: path, Err: errors.New("tree has no nodes")}
	}
	for i, node := range artifact.Nodes {
		if node.IsLeaf {
			if node.Probability < 0 || node.Probability > 1 {
				return &ArtifactLoadError{Path: path, Err: fmt.Errorf("node %d probability out of range", i)}
			}
			continue
		}
		if node.LeftChild <= 0 || node.LeftChild >= len(artifact.Nodes) ||
			node.RightChild <= 0 || node.RightChild >= len(artifact.Nodes) {
			return &ArtifactLoadError{Path: path, Err: fmt.Errorf("node %d child index out of range", i)}
		}
	}
	t.nodes = artifact.Nodes
	t.features = artifact.FeatureNames
	return nil
}

func (t *ChurnTree) Predict(features []float64) (int, float64, error) {
	if len(t.nodes) == 0 {
		return 0, 0, errors.New("model not loaded")
	}
	idx := 0
	for hops := 0; hops <= len(t.nodes); hops++ {
		node := t.nodes[idx]
		if node.IsLeaf {
			label := 0
			if node.Probability >= churnThreshold {
				label = 1
			}
			return label, node.Probability, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, 0, fmt.Errorf("feature index %d out of range for %d features", node.FeatureIdx, len(features))
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
	return 0, 0, errors.New("tree walk did not reach a leaf")
}

func (t *ChurnTree) FeatureNames() []string {
	return t.features
}
