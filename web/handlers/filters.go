package handlers

import (
	"net/http"

	"github.com/fieldpulse/fieldpulse/internal/warehouse"
)

// FiltersHandler serves the dashboard filter dropdown options.
type FiltersHandler struct {
	wh *warehouse.Warehouse
}

// NewFiltersHandler creates a new FiltersHandler instance.
func NewFiltersHandler(wh *warehouse.Warehouse) *FiltersHandler {
	return &FiltersHandler{wh: wh}
}

// CropOptions handles GET /api/filters/crops.
func (h *FiltersHandler) CropOptions(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	crops, err := conn.CropOptions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load crop options", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(crops))
}

// CropTypeOptions handles GET /api/filters/crop-types.
func (h *FiltersHandler) CropTypeOptions(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	types, err := conn.CropTypeOptions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load crop types", err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(types))
}
