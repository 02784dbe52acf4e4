package ml

import (
	"fmt"
)

// LoadClassifier loads a serialized classifier artifact of the given kind.
func LoadClassifier(kind, path string) (Classifier, error) {
	switch kind {
	case "logreg":
		model := &LogisticModel{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	case "decision_tree":
		model := &ChurnTree{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported model kind %q", kind)
	}
}
