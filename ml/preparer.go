package ml

import (
	"fmt"
)

// Preparer turns one raw CustomerRecord into the exact feature row the
// trained classifier expects, then invokes the classifier. It is
// stateless per call; the artifacts it holds are read-only.
type Preparer struct {
	model    Classifier
	scaler   *StandardScaler
	fallback []string
}

// NewPreparer wires a loaded classifier and scaler together. fallback is
// the separately persisted feature-name list, consulted only when the
// classifier's artifact does not self-describe its schema.
func NewPreparer(model Classifier, scaler *StandardScaler, fallback []string) *Preparer {
	return &Preparer{model: model, scaler: scaler, fallback: fallback}
}

// ExpectedColumns resolves the ordered feature-column list the classifier
// was trained on.
func (p *Preparer) ExpectedColumns() ([]string, error) {
	if provider, ok := p.model.(SchemaProvider); ok {
		if names := provider.FeatureNames(); len(names) > 0 {
			return names, nil
		}
	}
	if len(p.fallback) > 0 {
		return p.fallback, nil
	}
	return nil, ErrSchemaUnavailable
}

// Prepare featurizes one record: one-hot encode the categorical fields,
// standardize the numeric fields with the fitted scaler, concatenate, and
// align the result against the classifier's expected column order.
func (p *Preparer) Prepare(record CustomerRecord) (FeatureVector, error) {
	vector := EncodeCategoricals(record)

	numeric := make([]float64, len(p.scaler.Columns))
	for i, column := range p.scaler.Columns {
		value, ok := record.numericValue(column)
		if !ok {
			return FeatureVector{}, &ScalingError{Err: fmt.Errorf("scaler expects unknown column %s", column)}
		}
		numeric[i] = value
	}
	scaled, err := p.scaler.Transform(numeric)
	if err != nil {
		return FeatureVector{}, err
	}
	for i, column := range p.scaler.Columns {
		vector = vector.append(column, scaled[i])
	}

	expected, err := p.ExpectedColumns()
	if err != nil {
		return FeatureVector{}, err
	}
	return vector.Reindex(expected), nil
}

// Predict runs the classifier on one prepared row.
func (p *Preparer) Predict(vector FeatureVector) (PredictionResult, error) {
	label, probability, err := p.model.Predict(vector.Values)
	if err != nil {
		return PredictionResult{}, &InferenceError{Err: err}
	}
	if label != 0 && label != 1 {
		return PredictionResult{}, &InferenceError{Err: fmt.Errorf("classifier returned non-binary label %d", label)}
	}
	if probability < 0 || probability > 1 {
		return PredictionResult{}, &InferenceError{Err: fmt.Errorf("classifier returned probability %f", probability)}
	}
	return PredictionResult{Label: label, Probability: probability}, nil
}

// Classify is the one-shot form submission path: prepare then predict.
func (p *Preparer) Classify(record CustomerRecord) (PredictionResult, error) {
	vector, err := p.Prepare(record)
	if err != nil {
		return PredictionResult{}, err
	}
	return p.Predict(vector)
}
