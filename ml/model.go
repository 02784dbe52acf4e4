package ml

// Classifier is a trained binary churn model. Predict takes one prepared
// feature row and returns the label (1 = churn) and churn probability.
type Classifier interface {
	Predict(features []float64) (int, float64, error)
}

// SchemaProvider is implemented by classifiers whose artifact carries the
// ordered feature-column list they were trained on.
type SchemaProvider interface {
	FeatureNames() []string
}

// PredictionResult is the outcome of one inference call.
type PredictionResult struct {
	Label       int     `json:"label"`
	Probability float64 `json:"probability"`
}
