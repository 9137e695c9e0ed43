package handlers

import (
	"net/http"

	"github.com/fieldpulse/fieldpulse/internal/shape"
	"github.com/fieldpulse/fieldpulse/internal/warehouse"
)

// MarketingHandler serves the marketing-tab chart endpoints.
type MarketingHandler struct {
	wh        *warehouse.Warehouse
	companies warehouse.CompanySet
}

// NewMarketingHandler creates a new MarketingHandler instance.
func NewMarketingHandler(wh *warehouse.Warehouse, companies warehouse.CompanySet) *MarketingHandler {
	return &MarketingHandler{wh: wh, companies: companies}
}

// BrandHealthTrend handles GET /api/marketing/brand-health-trend.
func (h *MarketingHandler) BrandHealthTrend(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.BrandHealthTrend(r.Context(), h.companies.Home, dateRange(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load brand health trend", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.BrandHealth(rows))
}

// ConvVolumeByTopic handles GET /api/marketing/conv-volume-by-topic.
func (h *MarketingHandler) ConvVolumeByTopic(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.TopicVolumeByDate(r.Context(), dateRange(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load topic volume", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.PivotCounts(rows, 5))
}

// BrandKeywords handles GET /api/marketing/brand-keywords.
func (h *MarketingHandler) BrandKeywords(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.BrandKeywords(r.Context(), h.companies.Home, 50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load brand keywords", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.WordCloud(rows))
}

// MarketShareTrend handles GET /api/marketing/market-share-trend.
func (h *MarketingHandler) MarketShareTrend(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.MarketShareTrend(r.Context(), h.companies, dateRange(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load market share trend", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.PivotCounts(rows, 0))
}

// CompetitiveLandscape handles GET /api/marketing/competitive-landscape.
func (h *MarketingHandler) CompetitiveLandscape(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.CompetitiveLandscape(r.Context(), h.companies)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load competitive landscape", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}

// SentimentByCompetitor handles GET /api/marketing/sentiment-by-competitor.
func (h *MarketingHandler) SentimentByCompetitor(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.SentimentByCompetitor(r.Context(), h.companies, dateRange(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load competitor sentiment", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.PivotScores(rows))
}

// BrandCropAssociation handles GET /api/marketing/brand-crop-association.
func (h *MarketingHandler) BrandCropAssociation(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.BrandCropAssociation(r.Context(), h.companies.Home)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load brand crop association", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}
