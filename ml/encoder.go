package ml

// FeatureVector is an ordered mapping from feature column name to value.
type FeatureVector struct {
	Columns []string
	Values  []float64
}

// Get returns the value for a column and whether the column is present.
func (v FeatureVector) Get(column string) (float64, bool) {
	for i, name := range v.Columns {
		if name == column {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Reindex aligns the vector against the expected column list: expected
// columns keep their value or take 0 when absent, columns the classifier
// never saw are dropped.
func (v FeatureVector) Reindex(expected []string) FeatureVector {
	aligned := FeatureVector{
		Columns: make([]string, len(expected)),
		Values:  make([]float64, len(expected)),
	}
	copy(aligned.Columns, expected)
	for i, name := range expected {
		if value, ok := v.Get(name); ok {
			aligned.Values[i] = value
		}
	}
	return aligned
}

func (v FeatureVector) append(column string, value float64) FeatureVector {
	v.Columns = append(v.Columns, column)
	v.Values = append(v.Values, value)
	return v
}

// EncodeCategoricals one-hot encodes the categorical fields using the
// training-time naming scheme: column name, underscore, literal value
// (gender_Male, Near_Location_Yes, ...). Only the observed value's
// indicator is emitted; alignment fills the rest of the vocabulary with 0.
func EncodeCategoricals(record CustomerRecord) FeatureVector {
	var vector FeatureVector
	for _, cat := range record.categoricalValues() {
		vector = vector.append(cat.Column+"_"+cat.Value, 1)
	}
	return vector
}
