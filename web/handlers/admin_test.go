package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldpulse/fieldpulse/internal/warehouse"
	"github.com/fieldpulse/fieldpulse/internal/warehouse/warehousetest"
	"github.com/fieldpulse/fieldpulse/web/handlers"
)

func TestCompletenessKPI_Percentages(t *testing.T) {
	wh, db := openWarehouse(t)
	h := handlers.NewAdminHandler(wh)

	// Four conversations, all with semantics, two with entities, one with
	// metrics.
	for _, id := range []string{"c1", "c2", "c3", "c4"} {
		warehousetest.Conversation(t, db, id, 1, recently(1), "pests", "advice", "low", "neutral")
	}
	warehousetest.Entity(t, db, "c1", "crop", 10)
	warehousetest.Entity(t, db, "c2", "crop", 10)
	warehousetest.Exec(t, db, `INSERT INTO fact_conversation_metrics (conversation_id, alert_flag) VALUES ('c1', 0)`)

	var resp map[string]any
	rec := get(t, h.CompletenessKPI, "/api/admin/completeness-kpi", &resp)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 4, resp["total_conversations"])
	assert.EqualValues(t, 100.0, resp["semantics_completeness"])
	assert.EqualValues(t, 50.0, resp["entities_completeness"])
	assert.EqualValues(t, 25.0, resp["metrics_completeness"])
	assert.EqualValues(t, 58.3, resp["overall_completeness"])
}

func TestCompletenessKPI_EmptyWarehouse(t *testing.T) {
	wh, _ := openWarehouse(t)
	h := handlers.NewAdminHandler(wh)

	var resp map[string]any
	get(t, h.CompletenessKPI, "/api/admin/completeness-kpi", &resp)

	assert.EqualValues(t, 0, resp["total_conversations"])
	assert.EqualValues(t, 0.0, resp["overall_completeness"])
}

func TestDBStats_TableCountsAndDateRange(t *testing.T) {
	wh, db := openWarehouse(t)
	h := handlers.NewAdminHandler(wh)

	warehousetest.Conversation(t, db, "c1", 1, "2026-03-01 09:00:00", "pests", "advice", "low", "neutral")
	warehousetest.Conversation(t, db, "c2", 1, "2026-03-05 09:00:00", "pests", "advice", "low", "neutral")
	warehousetest.Crop(t, db, 10, "Rice", "Cereal")

	var stats map[string]any
	rec := get(t, h.DBStats, "/api/admin/db-stats", &stats)

	assert.Equal(t, http.StatusOK, rec.Code)
	for _, table := range warehouse.StatTables {
		assert.Contains(t, stats, table)
	}
	assert.EqualValues(t, 2, stats["fact_conversations"])
	assert.EqualValues(t, 1, stats["dim_crops"])

	dateRange, ok := stats["date_range"].(map[string]any)
	assert.True(t, ok, "date_range payload: %v", stats["date_range"])
	assert.Equal(t, "2026-03-01", dateRange["min"])
	assert.Equal(t, "2026-03-05", dateRange["max"])
}

func TestAdminUsers_EmptyWarehouseMarshalsArray(t *testing.T) {
	wh, _ := openWarehouse(t)
	h := handlers.NewAdminHandler(wh)

	rec := get(t, h.Users, "/api/admin/users", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
