package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fieldpulse/fieldpulse/internal/shape"
	"github.com/fieldpulse/fieldpulse/internal/warehouse"
)

// dateRange reads the date filter query parameter, defaulting to a 30-day
// trailing window.
func dateRange(r *http.Request) warehouse.DateRange {
	token := r.URL.Query().Get("date")
	if token == "" {
		token = "30"
	}
	return warehouse.ParseDateFilter(token, time.Now())
}

// HomeHandler serves the home-tab chart and KPI endpoints.
type HomeHandler struct {
	wh        *warehouse.Warehouse
	companies warehouse.CompanySet
}

// NewHomeHandler creates a new HomeHandler instance.
func NewHomeHandler(wh *warehouse.Warehouse, companies warehouse.CompanySet) *HomeHandler {
	return &HomeHandler{wh: wh, companies: companies}
}

// FetchKPIs computes the home KPI triple for a date range. Shared by the
// KPI endpoint and the live stats broadcaster.
func FetchKPIs(ctx context.Context, wh *warehouse.Warehouse, dr warehouse.DateRange) (HomeKPIs, error) {
	conn, err := wh.Acquire(ctx)
	if err != nil {
		return HomeKPIs{}, err
	}
	defer conn.Close()

	alerts, err := conn.AlertCount(ctx, dr)
	if err != nil {
		return HomeKPIs{}, err
	}
	health, err := conn.MarketHealth(ctx, dr)
	if err != nil {
		return HomeKPIs{}, err
	}
	activity, err := conn.ActivityCount(ctx, dr)
	if err != nil {
		return HomeKPIs{}, err
	}

	// A warehouse with no scored conversations reports neutral health.
	healthScore := 50.0
	if health != nil {
		healthScore = *health
	}

	return HomeKPIs{
		AlertCount:    alerts,
		MarketHealth:  shape.Round1(healthScore),
		ActivityCount: activity,
	}, nil
}

// KPIs handles GET /api/home/kpis.
func (h *HomeHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := FetchKPIs(r.Context(), h.wh, dateRange(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute KPIs", err)
		return
	}
	respondJSON(w, http.StatusOK, kpis)
}

// VolumeSentiment handles GET /api/home/volume-sentiment.
func (h *HomeHandler) VolumeSentiment(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.VolumeSentiment(r.Context(), dateRange(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load volume sentiment", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.VolumeSentiment(rows))
}

// ConversationDistribution handles GET /api/home/conversation-distribution.
func (h *HomeHandler) ConversationDistribution(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.TopTopics(r.Context(), 5)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load topic distribution", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.CategorySeries(rows))
}

// MarketShare handles GET /api/home/market-share.
func (h *HomeHandler) MarketShare(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.MarketShare(r.Context(), h.companies)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load market share", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.CategorySeries(rows))
}

// CompetitivePosition handles GET /api/home/competitive-position.
func (h *HomeHandler) CompetitivePosition(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.CompetitivePosition(r.Context(), h.companies)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load competitive position", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}

// ConversationDrivers handles GET /api/home/conversation-drivers.
func (h *HomeHandler) ConversationDrivers(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.ConversationDrivers(r.Context(), 10)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load conversation drivers", err)
		return
	}
	respondJSON(w, http.StatusOK, shape.CategorySeries(rows))
}
