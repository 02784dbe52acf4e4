package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/db"
	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/ml"
	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/monitoring"
)

// PreparerProvider hands out the currently loaded artifact set. The
// artifact watcher implements it; tests plug in fakes.
type PreparerProvider interface {
	Preparer() *ml.Preparer
	Generation() uint64
}

var (
	preparerProvider PreparerProvider
	predictionHub    *monitoring.Hub
	handlerLogger    = zap.NewNop()

	// Swappable for tests.
	savePrediction    = db.SavePrediction
	recentPredictions = db.RecentPredictions
)

// SetPreparerProvider injects the artifact source for predictions.
func SetPreparerProvider(p PreparerProvider) {
	preparerProvider = p
}

// SetPredictionHub injects the websocket hub for live prediction events.
func SetPredictionHub(hub *monitoring.Hub) {
	predictionHub = hub
}

// SetLogger injects the handler logger.
func SetLogger(logger *zap.Logger) {
	if logger != nil {
		handlerLogger = logger
	}
}

func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/predict", handlePredict)
	mux.HandleFunc("GET /api/predictions/recent", handleRecentPredictions)
	mux.HandleFunc("GET /api/ws/predictions", handlePredictionFeed)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func handlePredict(w http.ResponseWriter, r *http.Request) {
	if preparerProvider == nil || preparerProvider.Preparer() == nil {
		http.Error(w, `{"error":"model not loaded"}`, http.StatusServiceUnavailable)
		return
	}

	var record ml.CustomerRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if err := record.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	generation := preparerProvider.Generation()
	if result, ok := cachedPrediction(generation, record); ok {
		writePrediction(w, result, true)
		return
	}

	result, err := preparerProvider.Preparer().Classify(record)
	if err != nil {
		status := http.StatusInternalServerError
		var scalingErr *ml.ScalingError
		var inferenceErr *ml.InferenceError
		switch {
		case errors.Is(err, ml.ErrSchemaUnavailable),
			errors.As(err, &scalingErr),
			errors.As(err, &inferenceErr):
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}

	storePrediction(generation, record, result)
	if err := savePrediction(record, result); err != nil {
		handlerLogger.Warn("failed to log prediction", zap.Error(err))
	}
	if predictionHub != nil {
		predictionHub.BroadcastPrediction(record, result)
	}

	writePrediction(w, result, false)
}

func handleRecentPredictions(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit := 50
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	records, err := recentPredictions(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"predictions": records,
		"count":       len(records),
		"limit":       limit,
	})
}

func handlePredictionFeed(w http.ResponseWriter, r *http.Request) {
	if predictionHub == nil {
		http.Error(w, `{"error":"prediction feed not available"}`, http.StatusServiceUnavailable)
		return
	}
	predictionHub.ServeWS(w, r)
}

func writePrediction(w http.ResponseWriter, result ml.PredictionResult, cached bool) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"label":       result.Label,
		"probability": result.Probability,
		"churn":       result.Label == 1,
		"cached":      cached,
	})
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
