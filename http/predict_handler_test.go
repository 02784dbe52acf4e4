package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/ml"
)

type fakeModel struct {
	label       int
	probability float64
	err         error
	names       []string
}

func (f *fakeModel) Predict(features []float64) (int, float64, error) {
	return f.label, f.probability, f.err
}

func (f *fakeModel) FeatureNames() []string {
	return f.names
}

type fakeProvider struct {
	preparer   *ml.Preparer
	generation uint64
}

func (f *fakeProvider) Preparer() *ml.Preparer { return f.preparer }
func (f *fakeProvider) Generation() uint64     { return f.generation }

func trainedColumns() []string {
	columns := []string{
		"gender_Female", "gender_Male",
		"Near_Location_No", "Near_Location_Yes",
		"Partner_No", "Partner_Yes",
		"Promo_friends_No", "Promo_friends_Yes",
		"Phone_No", "Phone_Yes",
		"Group_visits_No", "Group_visits_Yes",
	}
	return append(columns, ml.NumericColumns()...)
}

func identityScaler() *ml.StandardScaler {
	columns := ml.NumericColumns()
	mean := make([]float64, len(columns))
	scale := make([]float64, len(columns))
	for i := range scale {
		scale[i] = 1
	}
	return &ml.StandardScaler{Columns: columns, Mean: mean, Scale: scale}
}

func testRecordBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	record := ml.CustomerRecord{
		Gender:                        "Male",
		NearLocation:                  "Yes",
		Partner:                       "No",
		PromoFriends:                  "No",
		Phone:                         "Yes",
		GroupVisits:                   "No",
		ContractPeriod:                6,
		Age:                           30,
		AvgAdditionalChargesTotal:     50,
		MonthToEndContract:            3,
		Lifetime:                      12,
		AvgClassFrequencyTotal:        2,
		AvgClassFrequencyCurrentMonth: 1.5,
	}
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(record); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestHandlePredict(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	model := &fakeModel{label: 1, probability: 0.82, names: trainedColumns()}
	SetPreparerProvider(&fakeProvider{preparer: ml.NewPreparer(model, identityScaler(), nil), generation: 1})
	defer SetPreparerProvider(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", testRecordBody(t))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["label"].(float64) != 1 {
		t.Fatalf("unexpected label: %v", payload["label"])
	}
	if payload["probability"].(float64) != 0.82 {
		t.Fatalf("unexpected probability: %v", payload["probability"])
	}
	if payload["churn"].(bool) != true {
		t.Fatalf("unexpected churn flag: %v", payload["churn"])
	}
}

func TestHandlePredictValidation(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	model := &fakeModel{names: trainedColumns()}
	SetPreparerProvider(&fakeProvider{preparer: ml.NewPreparer(model, identityScaler(), nil)})
	defer SetPreparerProvider(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/predict",
		bytes.NewBufferString(`{"gender":"Male","age":12}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandlePredictNoModel(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	SetPreparerProvider(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", testRecordBody(t))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestHandlePredictSchemaUnavailable(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	SetPreparerProvider(&fakeProvider{preparer: ml.NewPreparer(&fakeModel{}, identityScaler(), nil)})
	defer SetPreparerProvider(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", testRecordBody(t))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandlePredictCaching(t *testing.T) {
	if err := InitPredictionCache(8); err != nil {
		t.Fatal(err)
	}
	defer InitPredictionCache(0)

	mux := http.NewServeMux()
	RegisterHandlers(mux)
	model := &fakeModel{label: 0, probability: 0.12, names: trainedColumns()}
	SetPreparerProvider(&fakeProvider{preparer: ml.NewPreparer(model, identityScaler(), nil), generation: 3})
	defer SetPreparerProvider(nil)

	for i, wantCached := range []bool{false, true} {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", testRecordBody(t))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d", i, w.Code)
		}
		var payload map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if payload["cached"].(bool) != wantCached {
			t.Fatalf("call %d: expected cached=%v, got %v", i, wantCached, payload["cached"])
		}
		if payload["probability"].(float64) != 0.12 {
			t.Fatalf("call %d: unexpected probability %v", i, payload["probability"])
		}
	}
}

func TestHandleRecentPredictions(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/predictions/recent?limit=5", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["limit"].(float64) != 5 {
		t.Fatalf("unexpected limit: %v", payload["limit"])
	}
}
