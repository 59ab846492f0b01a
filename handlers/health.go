package handlers

import (
	"log/slog"
	"net/http"

	"sensor-analytics-api/models"
)

// HealthCheck answers OK regardless of the analytics pipeline's state.
func HealthCheck(greeting string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, logger, http.StatusOK, models.HealthStatus{
			Status:  "OK",
			Message: greeting,
		})
	}
}
