package http

import (
	"encoding/json"
	"net/http"
)

// healthResponse - тело ответа health endpoint
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Handler возвращает HTTP handler для health check endpoint.
// Возвращает 200 OK с телом {"status":"healthy","service":<service>},
// если readiness не указана или возвращает true.
// Возвращает 503 с {"status":"unavailable","service":<service>},
// если readiness указана и возвращает false
func Handler(service string, readiness func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if readiness != nil && !readiness() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(healthResponse{Status: "unavailable", Service: service})
			return
		}

		json.NewEncoder(w).Encode(healthResponse{Status: "healthy", Service: service})
	}
}
