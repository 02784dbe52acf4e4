package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/dataset"
)

var dashboardData *dataset.Dataset

// SetDataset injects the loaded customer dataset for the chart endpoints.
func SetDataset(d *dataset.Dataset) {
	dashboardData = d
}

// RegisterDashboardRoutes registers the chart-data endpoints. All series
// except the churn distribution are computed over the loyal subset, the
// way the dashboard presents them.
func RegisterDashboardRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dataset/summary", handleDatasetSummary)
	mux.HandleFunc("GET /api/charts/churn-distribution", handleChurnDistribution)
	mux.HandleFunc("GET /api/charts/near-location", handleNearLocation)
	mux.HandleFunc("GET /api/charts/age-distribution", handleAgeDistribution)
	mux.HandleFunc("GET /api/charts/lifetime-by-contract", handleLifetimeByContract)
	mux.HandleFunc("GET /api/charts/lifetime-by-age", handleLifetimeByAge)
	mux.HandleFunc("GET /api/charts/group-promo", handleGroupPromo)
	mux.HandleFunc("GET /api/charts/lifetime-distribution", handleLifetimeDistribution)
	mux.HandleFunc("GET /api/charts/charges-distribution", handleChargesDistribution)
	mux.HandleFunc("GET /api/charts/lifetime-vs-charges", handleLifetimeVsCharges)
}

func datasetReady(w http.ResponseWriter) bool {
	if dashboardData == nil {
		http.Error(w, `{"error":"dataset not loaded"}`, http.StatusServiceUnavailable)
		return false
	}
	return true
}

func binsParam(r *http.Request) int {
	bins := 20
	if binsStr := r.URL.Query().Get("bins"); binsStr != "" {
		if b, err := strconv.Atoi(binsStr); err == nil && b > 0 && b <= 200 {
			bins = b
		}
	}
	return bins
}

func writeChart(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":      data,
		"timestamp": time.Now(),
	})
}

func handleDatasetSummary(w http.ResponseWriter, r *http.Request) {
	if !datasetReady(w) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"rows":       dashboardData.Len(),
		"loyal":      len(dashboardData.Loyal()),
		"churn_rate": dashboardData.ChurnRate(),
	})
}

func handleChurnDistribution(w http.ResponseWriter, r *http.Request) {
	if !datasetReady(w) {
		return
	}
	writeChart(w, dataset.ChurnDistribution(dashboardData.Rows()))
}

func handleNearLocation(w http.ResponseWriter, r *http.Request) {
	if !datasetReady(w) {
		return
	}
	writeChart(w, dataset.CountByNearLocation(dashboardData.Loyal()))
}

func handleAgeDistribution(w http.ResponseWriter, r *http.Request) {
	if !datasetReady(w) {
		return
	}
	writeChart(w, dataset.AgeHistogram(dashboardData.Loyal(), binsParam(r)))
}

func handleLifetimeByContract(w http.ResponseWriter, r *http.Request) {
	if !datasetReady(w) {
		return
	}
	writeChart(w, dataset.MeanLifetimeByContract(dashboardData.Loyal()))
}

func handleLifetimeByAge(w http.ResponseWriter, r *http.Request) {
	if !datasetReady(w) {
		return
	}
	writeChart(w, dataset.MeanLifetimeByAge(dashboardData.Loyal()))
}

func handleGroupPromo(w http.ResponseWriter, r *http.Request) {
	if !datasetReady(w) {
		return
	}
	writeChart(w, dataset.GroupPromoCounts(dashboardData.Loyal()))
}

func handleLifetimeDistribution(w http.ResponseWriter, r *http.Request) {
	if !datasetReady(w) {
		return
	}
	writeChart(w, dataset.LifetimeHistogram(dashboardData.Loyal(), binsParam(r)))
}

func handleChargesDistribution(w http.ResponseWriter, r *http.Request) {
	if !datasetReady(w) {
		return
	}
	writeChart(w, dataset.ChargesHistogram(dashboardData.Loyal(), binsParam(r)))
}

func handleLifetimeVsCharges(w http.ResponseWriter, r *http.Request) {
	if !datasetReady(w) {
		return
	}
	writeChart(w, dataset.LifetimeVsCharges(dashboardData.Loyal()))
}
