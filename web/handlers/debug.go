package handlers

import (
	"net/http"

	"github.com/fieldpulse/fieldpulse/internal/warehouse"
)

// DebugHandler exposes company-resolution debug endpoints.
type DebugHandler struct {
	wh        *warehouse.Warehouse
	companies warehouse.CompanySet
}

// NewDebugHandler creates a new DebugHandler instance.
func NewDebugHandler(wh *warehouse.Warehouse, companies warehouse.CompanySet) *DebugHandler {
	return &DebugHandler{wh: wh, companies: companies}
}

// debugCompaniesResponse pairs the raw company catalog with the resolved
// comparison set, for checking why a competitor chart comes back empty.
type debugCompaniesResponse struct {
	AllCompanies          []warehouse.CompanyBrandCount `json:"all_companies"`
	CompaniesWithData     []warehouse.CompanyMentions   `json:"companies_with_data"`
	ConfiguredCompetitors map[string]int                `json:"configured_competitors"`
	HomeCode              int                           `json:"home_code"`
}

// Companies handles GET /api/debug/companies.
func (h *DebugHandler) Companies(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wh.Acquire(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "warehouse unavailable", err)
		return
	}
	defer conn.Close()

	all, err := conn.CompanyBrandCounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load companies", err)
		return
	}
	withData, err := conn.CompaniesWithData(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load company mentions", err)
		return
	}

	respondJSON(w, http.StatusOK, debugCompaniesResponse{
		AllCompanies:          nonNil(all),
		CompaniesWithData:     nonNil(withData),
		ConfiguredCompetitors: h.companies.Competitors,
		HomeCode:              h.companies.Home,
	})
}
