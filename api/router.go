// Package api wires the HTTP endpoints of the prediction service.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/routetime/core/logger"
	"github.com/kilianp07/routetime/core/prediction"
)

// Health is reported by GET /health.
type Health struct {
	Status  string `json:"status"`
	ModelID string `json:"model_id"`
}

// NewRouter mounts /predict, /traffic-conditions, /health and /metrics behind
// request id and access logging middleware.
func NewRouter(predictHandler http.Handler, modelID string, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/predict", predictHandler)
	mux.HandleFunc("/traffic-conditions", trafficHandler(time.Now))
	mux.HandleFunc("/health", healthHandler(modelID))
	mux.Handle("/metrics", promhttp.Handler())
	return requestIDMiddleware(loggingMiddleware(log, mux))
}

func healthHandler(modelID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Health{Status: "ok", ModelID: modelID})
	}
}

func trafficHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(prediction.CurrentTraffic(now()))
	}
}
