package web

import (
	"encoding/json"
	"net/http"

	"github.com/videogen/outputs-preview/internal/cache"
	"github.com/videogen/outputs-preview/internal/version"
)

type healthResponse struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Cache   cache.Stats `json:"cache"`
}

// HealthHandler returns a simple health check endpoint reporting the build
// version and the download cache counters.
func HealthHandler(stats func() cache.Stats) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "ok",
			Version: version.Version,
			Cache:   stats(),
		})
	})
}
