package handlers

import (
	"net/http"

	"github.com/fieldpulse/fieldpulse/internal/shape"
	"github.com/fieldpulse/fieldpulse/internal/warehouse"
)

// OperationsHandler serves the operations-tab chart endpoints.
type OperationsHandler struct {
	wh *warehouse.Warehouse
}

// NewOperationsHandler creates a new OperationsHandler instance.
func NewOperationsHandler(wh *warehouse.Warehouse) *OperationsHandler {
	return &OperationsHandler{wh: wh}
}

// UrgentIssues handles GET /api/operations/urgent-issues.
func (h *OperationsHandler) UrgentIssues(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.UrgentIssues(r.Context(), 50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load urgent issues", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}

// DemandSignalTrend handles GET /api/operations/demand-signal-trend.
func (h *OperationsHandler) DemandSignalTrend(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.DemandSignalTrend(r.Context(), dateRange(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load demand signal trend", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.DateSeries(rows))
}

// DemandChangeAlert handles GET /api/operations/demand-change-alert.
func (h *OperationsHandler) DemandChangeAlert(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.DemandChangeAlert(r.Context(), 10)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load demand change alerts", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}

// CropPestHeatmap handles GET /api/operations/crop-pest-heatmap.
func (h *OperationsHandler) CropPestHeatmap(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.CropPestHeatmap(r.Context(), 100)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load crop pest heatmap", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}

// problemTopics is the fixed topic set of the problem-trend chart; every
// topic gets a dataset even when it has no conversations.
var problemTopics = []string{"pest", "disease", "weed", "crop_damage"}

// ProblemTrend handles GET /api/operations/problem-trend.
func (h *OperationsHandler) ProblemTrend(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.ProblemTrend(r.Context(), dateRange(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load problem trend", err)
		return
	}

	grid := shape.FixedPivotCounts(rows, problemTopics)
	for i := range grid.Datasets {
		grid.Datasets[i].Label = shape.Capitalize(grid.Datasets[i].Label)
	}
	respondJSON(w, http.StatusOK, grid)
}

// ProblemSentiment handles GET /api/operations/problem-sentiment.
func (h *OperationsHandler) ProblemSentiment(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.ProblemSentiment(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load problem sentiment", err)
		return
	}
	labels := shape.GroupedLabels(rows, 0)
	respondJSON(w, http.StatusOK, shape.SentimentBuckets(labels, rows))
}

// CropKeywords handles GET /api/operations/crop-keywords. When no crop
// entity has been extracted yet it falls back to the crop dimension with
// unit weights.
func (h *OperationsHandler) CropKeywords(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.CropKeywords(r.Context(), 50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load crop keywords", err)
		return
	}
	if len(rows) == 0 {
		rows, err = conn.CropKeywordFallback(r.Context(), 50)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to load crop keywords", err)
			return
		}
	}
	respondJSON(w, http.StatusOK, shape.WordCloud(rows))
}

// SolutionFlow handles GET /api/operations/solution-flow.
func (h *OperationsHandler) SolutionFlow(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.SolutionFlow(r.Context(), 50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load solution flow", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}

// SolutionEffectiveness handles GET /api/operations/solution-effectiveness.
func (h *OperationsHandler) SolutionEffectiveness(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.SolutionEffectiveness(r.Context(), 10)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load solution effectiveness", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.CategorySeries(rows))
}

// SolutionSentiment handles GET /api/operations/solution-sentiment.
func (h *OperationsHandler) SolutionSentiment(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.SolutionSentiment(r.Context(), dateRange(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load solution sentiment", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.DateScores(rows))
}

// SentimentByCrop handles GET /api/operations/sentiment-by-crop. Per-crop
// sentiment rollups are not in the warehouse yet, so the buckets are all
// zero over the top crop labels.
func (h *OperationsHandler) SentimentByCrop(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.CropMentionCounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load crop sentiment", err)
		return
	}

	labels := []string{}
	for i, row := range rows {
		if i == 10 {
			break
		}
		labels = append(labels, row.Category)
	}
	respondJSON(w, http.StatusOK, shape.EmptyBuckets(labels))
}
