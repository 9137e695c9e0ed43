package handlers

import (
	"net/http"
	"sort"

	"github.com/fieldpulse/fieldpulse/internal/shape"
	"github.com/fieldpulse/fieldpulse/internal/warehouse"
)

// EngagementHandler serves the engagement-tab chart endpoints.
type EngagementHandler struct {
	wh *warehouse.Warehouse
}

// NewEngagementHandler creates a new EngagementHandler instance.
func NewEngagementHandler(wh *warehouse.Warehouse) *EngagementHandler {
	return &EngagementHandler{wh: wh}
}

// ConvByRegion handles GET /api/engagement/conv-by-region.
func (h *EngagementHandler) ConvByRegion(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.ConversationsByRegion(r.Context(), 20)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load regional volumes", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.CategorySeries(rows))
}

// TeamUrgency handles GET /api/engagement/team-urgency.
func (h *EngagementHandler) TeamUrgency(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.TeamUrgency(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load urgency distribution", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.CategorySeries(rows))
}

// TeamIntent handles GET /api/engagement/team-intent.
func (h *EngagementHandler) TeamIntent(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.TeamIntent(r.Context(), 5)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load intent distribution", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.CategorySeries(rows))
}

// QualityByRegion handles GET /api/engagement/quality-by-region.
func (h *EngagementHandler) QualityByRegion(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.QualityByRegion(r.Context(), 60)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load quality by region", err)
		return
	}
	labels := shape.GroupedLabels(rows, 10)
	respondJSON(w, http.StatusOK, shape.SentimentBuckets(labels, rows))
}

// AgentScorecard handles GET /api/engagement/agent-scorecard.
func (h *EngagementHandler) AgentScorecard(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.AgentScorecard(r.Context(), 20)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load agent scorecard", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}

// AgentLeaderboard handles GET /api/engagement/agent-leaderboard.
func (h *EngagementHandler) AgentLeaderboard(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.AgentLeaderboard(r.Context(), 10)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load agent leaderboard", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}

// AgentPerfTrend handles GET /api/engagement/agent-perf-trend.
func (h *EngagementHandler) AgentPerfTrend(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.AgentPerfTrend(r.Context(), dateRange(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load agent performance trend", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.PivotCounts(rows, 5))
}

// FieldLeaders handles GET /api/engagement/field-leaders.
func (h *EngagementHandler) FieldLeaders(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.FieldLeaders(r.Context(), 20)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load field leaders", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}

// SentimentByEntity handles GET /api/engagement/sentiment-by-entity.
// Per-entity sentiment rollups are not in the warehouse yet, so the buckets
// are all zero over the entity-type labels.
func (h *EngagementHandler) SentimentByEntity(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.EntityTypeCounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load entity sentiment", err)
		return
	}

	labels := []string{}
	for _, row := range rows {
		labels = append(labels, row.Category)
	}
	sort.Strings(labels)
	for i := range labels {
		labels[i] = shape.Capitalize(labels[i])
	}
	respondJSON(w, http.StatusOK, shape.EmptyBuckets(labels))
}

// TopicDistribution handles GET /api/engagement/topic-distribution.
func (h *EngagementHandler) TopicDistribution(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.TopicValues(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load topic distribution", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}

// TrainingNeeds handles GET /api/engagement/training-needs.
func (h *EngagementHandler) TrainingNeeds(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.TrainingNeeds(r.Context(), 20)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load training needs", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}
