package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HomeKPIs is the response format for GET /api/home/kpis. The same payload
// is broadcast over the live stats socket.
type HomeKPIs struct {
	AlertCount    int     `json:"alert_count"`
	MarketHealth  float64 `json:"market_health"`
	ActivityCount int     `json:"activity_count"`
}

// CompletenessResponse is the response format for GET /api/admin/completeness-kpi.
type CompletenessResponse struct {
	TotalConversations    int     `json:"total_conversations"`
	SemanticsCompleteness float64 `json:"semantics_completeness"`
	EntitiesCompleteness  float64 `json:"entities_completeness"`
	MetricsCompleteness   float64 `json:"metrics_completeness"`
	OverallCompleteness   float64 `json:"overall_completeness"`
}

// DateRangeStats is the date_range member of the db-stats payload.
type DateRangeStats struct {
	Min *string `json:"min"`
	Max *string `json:"max"`
}

func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers already sent, nothing more we can do for this response.
		log.Printf("failed to encode JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  http.StatusText(statusCode),
	}

	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}

	respondJSON(w, statusCode, errResp)
}

// nonNil replaces a nil slice with an empty one so list endpoints marshal
// to [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
