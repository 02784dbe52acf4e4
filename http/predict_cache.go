package http

import (
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/ml"
)

// Inference is deterministic, so identical records under the same
// artifact generation can be answered from cache. Keys embed the artifact
// generation; a reload invalidates old entries by changing the key.
var predictionCache *lru.Cache[string, ml.PredictionResult]

// InitPredictionCache enables prediction memoization. size <= 0 disables it.
func InitPredictionCache(size int) error {
	if size <= 0 {
		predictionCache = nil
		return nil
	}
	cache, err := lru.New[string, ml.PredictionResult](size)
	if err != nil {
		return err
	}
	predictionCache = cache
	return nil
}

func cacheKey(generation uint64, record ml.CustomerRecord) (string, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d|%s", generation, payload), nil
}

func cachedPrediction(generation uint64, record ml.CustomerRecord) (ml.PredictionResult, bool) {
	if predictionCache == nil {
		return ml.PredictionResult{}, false
	}
	key, err := cacheKey(generation, record)
	if err != nil {
		return ml.PredictionResult{}, false
	}
	return predictionCache.Get(key)
}

func storePrediction(generation uint64, record ml.CustomerRecord, result ml.PredictionResult) {
	if predictionCache == nil {
		return
	}
	key, err := cacheKey(generation, record)
	if err != nil {
		return
	}
	predictionCache.Add(key, result)
}
