package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldpulse/fieldpulse/internal/warehouse/warehousetest"
	"github.com/fieldpulse/fieldpulse/web/handlers"
)

func TestCropKeywords_FallsBackToCropDimension(t *testing.T) {
	wh, db := openWarehouse(t)
	h := handlers.NewOperationsHandler(wh)

	// No crop entities extracted yet, only the dimension table.
	warehousetest.Crop(t, db, 10, "Rice", "Cereal")
	warehousetest.Crop(t, db, 11, "No Crop", "Cereal")
	warehousetest.Crop(t, db, 12, "Maize", "(blank)")

	var words []map[string]any
	rec := get(t, h.CropKeywords, "/api/operations/crop-keywords", &words)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, words, 1, "placeholder crops must be excluded")
	assert.Equal(t, "Rice", words[0]["text"])
	assert.EqualValues(t, 1, words[0]["size"])
}

func TestCropKeywords_PrefersExtractedEntities(t *testing.T) {
	wh, db := openWarehouse(t)
	h := handlers.NewOperationsHandler(wh)

	warehousetest.Crop(t, db, 10, "Rice", "Cereal")
	warehousetest.Crop(t, db, 11, "Wheat", "Cereal")
	warehousetest.Conversation(t, db, "c1", 1, recently(1), "pests", "advice", "low", "neutral")
	warehousetest.Conversation(t, db, "c2", 1, recently(1), "pests", "advice", "low", "neutral")
	warehousetest.Entity(t, db, "c1", "crop", 10)
	warehousetest.Entity(t, db, "c2", "crop", 10)

	var words []map[string]any
	get(t, h.CropKeywords, "/api/operations/crop-keywords", &words)

	assert.Len(t, words, 1)
	assert.Equal(t, "Rice", words[0]["text"])
	assert.EqualValues(t, 2, words[0]["size"])
}

func TestSentimentByCrop_EmptyBucketsForTopCrops(t *testing.T) {
	wh, db := openWarehouse(t)
	h := handlers.NewOperationsHandler(wh)

	warehousetest.Crop(t, db, 10, "Rice", "Cereal")
	warehousetest.Conversation(t, db, "c1", 1, recently(1), "pests", "advice", "low", "neutral")
	warehousetest.Entity(t, db, "c1", "crop", 10)

	var resp struct {
		Labels   []string `json:"labels"`
		Datasets []struct {
			Label string    `json:"label"`
			Data  []float64 `json:"data"`
		} `json:"datasets"`
	}
	rec := get(t, h.SentimentByCrop, "/api/operations/sentiment-by-crop", &resp)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Rice"}, resp.Labels)
	// Sentiment rollups per crop are not recorded, so the buckets stay at
	// zero in the fixed order.
	if assert.Len(t, resp.Datasets, 3) {
		assert.Equal(t, "Positive", resp.Datasets[0].Label)
		assert.Equal(t, "Neutral", resp.Datasets[1].Label)
		assert.Equal(t, "Negative", resp.Datasets[2].Label)
		assert.Equal(t, []float64{0}, resp.Datasets[0].Data)
	}
}

func TestProblemTrend_EmitsAllFixedTopics(t *testing.T) {
	wh, db := openWarehouse(t)
	h := handlers.NewOperationsHandler(wh)

	// Only pest conversations; the other problem topics still get
	// zero-filled datasets.
	warehousetest.Conversation(t, db, "c1", 1, recently(1), "pest", "advice", "high", "negative")

	var resp struct {
		Labels   []string `json:"labels"`
		Datasets []struct {
			Label string `json:"label"`
			Data  []int  `json:"data"`
		} `json:"datasets"`
	}
	rec := get(t, h.ProblemTrend, "/api/operations/problem-trend", &resp)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Datasets, 4)
	assert.Equal(t, "Pest", resp.Datasets[0].Label)
	assert.Equal(t, "Disease", resp.Datasets[1].Label)
	assert.Equal(t, "Weed", resp.Datasets[2].Label)
	assert.Equal(t, "Crop_damage", resp.Datasets[3].Label)
	assert.Equal(t, []int{1}, resp.Datasets[0].Data)
	assert.Equal(t, []int{0}, resp.Datasets[1].Data)
}

func TestUrgentIssues_EmptyWarehouseMarshalsArray(t *testing.T) {
	wh, _ := openWarehouse(t)
	h := handlers.NewOperationsHandler(wh)

	rec := get(t, h.UrgentIssues, "/api/operations/urgent-issues", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
