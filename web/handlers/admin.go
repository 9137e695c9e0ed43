package handlers

import (
	"net/http"

	"github.com/fieldpulse/fieldpulse/internal/shape"
	"github.com/fieldpulse/fieldpulse/internal/warehouse"
)

// AdminHandler serves the admin-tab endpoints: user listings, activity and
// warehouse health statistics.
type AdminHandler struct {
	wh *warehouse.Warehouse
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(wh *warehouse.Warehouse) *AdminHandler {
	return &AdminHandler{wh: wh}
}

// Users handles GET /api/admin/users.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.DashboardUsers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load users", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}

// UserActivityLog handles GET /api/admin/user-activity-log.
func (h *AdminHandler) UserActivityLog(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	rows, err := conn.UserActivityLog(r.Context(), 50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load activity log", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(rows))
}

// CompletenessKPI handles GET /api/admin/completeness-kpi.
func (h *AdminHandler) CompletenessKPI(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	counts, err := conn.Completeness(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute completeness", err)
		return
	}

	resp := CompletenessResponse{TotalConversations: counts.Total}
	if counts.Total > 0 {
		resp.SemanticsCompleteness = shape.Round1(float64(counts.WithSemantics) / float64(counts.Total) * 100)
		resp.EntitiesCompleteness = shape.Round1(float64(counts.WithEntities) / float64(counts.Total) * 100)
		resp.MetricsCompleteness = shape.Round1(float64(counts.WithMetrics) / float64(counts.Total) * 100)
	}
	resp.OverallCompleteness = shape.Round1(
		(resp.SemanticsCompleteness + resp.EntitiesCompleteness + resp.MetricsCompleteness) / 3)

	respondJSON(w, http.StatusOK, resp)
}

// DBStats handles GET /api/admin/db-stats. The payload maps each warehouse
// table to its row count plus a date_range member.
func (h *AdminHandler) DBStats(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	stats := make(map[string]interface{}, len(warehouse.StatTables)+1)
	for _, table := range warehouse.StatTables {
		count, err := conn.TableCount(r.Context(), table)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to count "+table, err)
			return
		}
		stats[table] = count
	}

	minDate, maxDate, err := conn.RecordedDateRange(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load date range", err)
		return
	}
	stats["date_range"] = DateRangeStats{Min: minDate, Max: maxDate}

	respondJSON(w, http.StatusOK, stats)
}
