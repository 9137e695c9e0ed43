package handlers_test

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldpulse/fieldpulse/internal/warehouse"
	"github.com/fieldpulse/fieldpulse/internal/warehouse/warehousetest"
	"github.com/fieldpulse/fieldpulse/web/handlers"
)

// openWarehouse returns an in-memory warehouse together with its raw
// database handle for seeding.
func openWarehouse(t *testing.T) (*warehouse.Warehouse, *sql.DB) {
	t.Helper()
	db := warehousetest.Open(t)
	return warehouse.New(db), db
}

// get runs a GET request through a handler func and decodes the JSON body.
func get(t *testing.T, h http.HandlerFunc, target string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out),
			"body: %s", rec.Body.String())
	}
	return rec
}

// recently formats a timestamp n days back, inside the default 30-day window.
func recently(daysAgo int) string {
	return time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02 15:04:05")
}

func TestHomeKPIs_NeutralFallbackOnEmptyWarehouse(t *testing.T) {
	wh, _ := openWarehouse(t)
	h := handlers.NewHomeHandler(wh, warehouse.CompanySet{Home: 7007})

	var kpis map[string]any
	rec := get(t, h.KPIs, "/api/home/kpis", &kpis)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, kpis["alert_count"])
	assert.EqualValues(t, 0, kpis["activity_count"])
	assert.EqualValues(t, 50.0, kpis["market_health"])
}

func TestHomeKPIs_CountsAndHealth(t *testing.T) {
	wh, db := openWarehouse(t)
	h := handlers.NewHomeHandler(wh, warehouse.CompanySet{Home: 7007})

	warehousetest.Conversation(t, db, "c1", 1, recently(1), "pests", "advice", "high", "positive")
	warehousetest.Conversation(t, db, "c2", 1, recently(2), "pests", "advice", "low", "negative")
	warehousetest.Exec(t, db, `INSERT INTO fact_conversation_metrics (conversation_id, alert_flag) VALUES ('c1', 1)`)

	var kpis map[string]any
	get(t, h.KPIs, "/api/home/kpis", &kpis)

	assert.EqualValues(t, 1, kpis["alert_count"])
	assert.EqualValues(t, 2, kpis["activity_count"])
	// One positive and one negative conversation average to neutral.
	assert.EqualValues(t, 50.0, kpis["market_health"])
}

func TestHomeKPIs_RespectsDateFilter(t *testing.T) {
	wh, db := openWarehouse(t)
	h := handlers.NewHomeHandler(wh, warehouse.CompanySet{Home: 7007})

	warehousetest.Conversation(t, db, "new", 1, recently(2), "pests", "advice", "low", "neutral")
	warehousetest.Conversation(t, db, "old", 1, recently(90), "pests", "advice", "low", "neutral")

	var kpis map[string]any
	get(t, h.KPIs, "/api/home/kpis?date=7", &kpis)
	assert.EqualValues(t, 1, kpis["activity_count"])

	get(t, h.KPIs, "/api/home/kpis?date=all", &kpis)
	assert.EqualValues(t, 2, kpis["activity_count"])
}

func TestConversationDistribution_EmptyWarehouseMarshalsArrays(t *testing.T) {
	wh, _ := openWarehouse(t)
	h := handlers.NewHomeHandler(wh, warehouse.CompanySet{Home: 7007})

	rec := get(t, h.ConversationDistribution, "/api/home/conversation-distribution", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"labels":[],"data":[]}`, rec.Body.String())
}

func TestCompetitivePosition_EmptyWarehouseMarshalsArray(t *testing.T) {
	wh, _ := openWarehouse(t)
	h := handlers.NewHomeHandler(wh, warehouse.CompanySet{Home: 7007})

	rec := get(t, h.CompetitivePosition, "/api/home/competitive-position", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestConversationDistribution_TopFiveTopics(t *testing.T) {
	wh, db := openWarehouse(t)
	h := handlers.NewHomeHandler(wh, warehouse.CompanySet{Home: 7007})

	// Six distinct topics with descending volume; only the top five make
	// the chart.
	topics := []string{"pests", "pricing", "weather", "disease", "irrigation", "harvest"}
	id := 0
	for i, topic := range topics {
		for j := 0; j <= len(topics)-i; j++ {
			id++
			warehousetest.Conversation(t, db, fmt.Sprintf("c%d", id), 1, recently(1), topic, "advice", "low", "neutral")
		}
	}

	var series struct {
		Labels []string  `json:"labels"`
		Data   []float64 `json:"data"`
	}
	get(t, h.ConversationDistribution, "/api/home/conversation-distribution", &series)

	assert.Equal(t, []string{"pests", "pricing", "weather", "disease", "irrigation"}, series.Labels)
	assert.Equal(t, []float64{7, 6, 5, 4, 3}, series.Data)
}
