package warehouse_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldpulse/fieldpulse/internal/config"
	"github.com/fieldpulse/fieldpulse/internal/warehouse"
	"github.com/fieldpulse/fieldpulse/internal/warehouse/warehousetest"
)

func acquire(t *testing.T, w *warehouse.Warehouse) *warehouse.Conn {
	t.Helper()
	conn, err := w.Acquire(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestAlertCount(t *testing.T) {
	db := warehousetest.Open(t)
	warehousetest.Conversation(t, db, "c1", 1, "2026-08-01 10:00:00", "pest", "seek_advice", "high", "negative")
	warehousetest.Conversation(t, db, "c2", 1, "2026-08-02 10:00:00", "pricing", "purchase", "low", "positive")
	warehousetest.Exec(t, db, `INSERT INTO fact_conversation_metrics (conversation_id, alert_flag) VALUES ('c1', 1), ('c2', 0)`)

	conn := acquire(t, warehouse.New(db))
	count, err := conn.AlertCount(context.Background(), warehouse.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarketHealthAverages(t *testing.T) {
	db := warehousetest.Open(t)
	warehousetest.Conversation(t, db, "c1", 1, "2026-08-01 10:00:00", "pest", "seek_advice", "low", "positive")
	warehousetest.Conversation(t, db, "c2", 1, "2026-08-01 11:00:00", "pest", "seek_advice", "low", "negative")

	conn := acquire(t, warehouse.New(db))
	health, err := conn.MarketHealth(context.Background(), warehouse.DateRange{})
	require.NoError(t, err)
	require.NotNil(t, health)
	assert.InDelta(t, 50.0, *health, 0.001)
}

func TestMarketHealthEmptyWarehouse(t *testing.T) {
	db := warehousetest.Open(t)

	conn := acquire(t, warehouse.New(db))
	health, err := conn.MarketHealth(context.Background(), warehouse.DateRange{})
	require.NoError(t, err)
	assert.Nil(t, health)
}

func TestActivityCountWindow(t *testing.T) {
	db := warehousetest.Open(t)
	warehousetest.Conversation(t, db, "c1", 1, "2026-08-01 10:00:00", "pest", "seek_advice", "low", "neutral")
	warehousetest.Conversation(t, db, "c2", 1, "2026-08-15 10:00:00", "pest", "seek_advice", "low", "neutral")

	conn := acquire(t, warehouse.New(db))

	all, err := conn.ActivityCount(context.Background(), warehouse.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 2, all)

	windowed, err := conn.ActivityCount(context.Background(), warehouse.DateRange{
		Start: "2026-08-10 00:00:00",
		End:   "2026-08-20 00:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, windowed)
}

func TestVolumeSentiment(t *testing.T) {
	db := warehousetest.Open(t)
	warehousetest.Conversation(t, db, "c1", 1, "2026-08-01 10:00:00", "pest", "seek_advice", "low", "positive")
	warehousetest.Conversation(t, db, "c2", 1, "2026-08-01 12:00:00", "pest", "seek_advice", "low", "negative")
	warehousetest.Conversation(t, db, "c3", 1, "2026-08-02 10:00:00", "pest", "seek_advice", "low", "neutral")

	conn := acquire(t, warehouse.New(db))
	rows, err := conn.VolumeSentiment(context.Background(), warehouse.DateRange{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2026-08-01", rows[0].Date)
	assert.Equal(t, 2, rows[0].Volume)
	require.NotNil(t, rows[0].Sentiment)
	assert.InDelta(t, 0.0, *rows[0].Sentiment, 0.001)

	assert.Equal(t, "2026-08-02", rows[1].Date)
	assert.Equal(t, 1, rows[1].Volume)
}

func TestMarketShareRestrictedToCompanySet(t *testing.T) {
	db := warehousetest.Open(t)
	warehousetest.Company(t, db, 7007, "COROMANDEL INTERNATIONAL")
	warehousetest.Company(t, db, 7002, "BAYER CROPSCIENCE")
	warehousetest.Company(t, db, 9999, "UNTRACKED AGRO")
	warehousetest.Brand(t, db, 100, "GroMax", 7007)
	warehousetest.Brand(t, db, 200, "FieldShield", 7002)
	warehousetest.Brand(t, db, 300, "OtherBrand", 9999)
	warehousetest.Conversation(t, db, "c1", 1, "2026-08-01 10:00:00", "pricing", "purchase", "low", "positive")
	warehousetest.Conversation(t, db, "c2", 1, "2026-08-01 11:00:00", "pricing", "purchase", "low", "positive")
	warehousetest.Entity(t, db, "c1", "brand", 100)
	warehousetest.Entity(t, db, "c2", "brand", 100)
	warehousetest.Entity(t, db, "c2", "brand", 200)
	warehousetest.Entity(t, db, "c1", "brand", 300)

	w := warehouse.New(db)
	set := warehouse.ResolveCompanies(context.Background(), w, config.CompanyConfig{
		HomeCode: 7007,
		Competitors: []config.CompetitorSpec{
			{Key: "BAYER", Match: "BAYER CROPSCIENCE", FallbackCode: 7002},
			{Key: "UPL", Match: "UPL LIMITED", FallbackCode: 7025},
			{Key: "SYNGENTA", Match: "SYNGENTA INDIA", FallbackCode: 7024},
		},
	})

	conn := acquire(t, w)
	rows, err := conn.MarketShare(context.Background(), set)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "COROMANDEL INTERNATIONAL", rows[0].Category)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, "BAYER CROPSCIENCE", rows[1].Category)
	assert.Equal(t, 1, rows[1].Count)
}

func TestResolveCompaniesFallback(t *testing.T) {
	db := warehousetest.Open(t)
	warehousetest.Company(t, db, 7002, "BAYER CROPSCIENCE")

	set := warehouse.ResolveCompanies(context.Background(), warehouse.New(db), config.CompanyConfig{
		HomeCode: 7007,
		Competitors: []config.CompetitorSpec{
			{Key: "BAYER", Match: "BAYER CROPSCIENCE", FallbackCode: 1111},
			{Key: "UPL", Match: "UPL LIMITED", FallbackCode: 7025},
		},
	})

	assert.Equal(t, 7007, set.Home)
	assert.Equal(t, 7002, set.Competitors["BAYER"], "resolved by name lookup")
	assert.Equal(t, 7025, set.Competitors["UPL"], "fallback code when the name is absent")

	codes := set.Codes()
	require.Len(t, codes, 3)
	assert.Equal(t, 7007, codes[0], "home code comes first")
}

func TestUrgentIssuesOrderAndFilter(t *testing.T) {
	db := warehousetest.Open(t)
	warehousetest.Conversation(t, db, "c1", 1, "2026-08-01 10:00:00", "pest", "seek_advice", "high", "negative")
	warehousetest.Conversation(t, db, "c2", 1, "2026-08-03 10:00:00", "disease", "seek_advice", "critical", "negative")
	warehousetest.Conversation(t, db, "c3", 1, "2026-08-02 10:00:00", "pricing", "purchase", "low", "positive")

	conn := acquire(t, warehouse.New(db))
	rows, err := conn.UrgentIssues(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "c2", rows[0].ConversationID, "most recent first")
	assert.Equal(t, "c1", rows[1].ConversationID)
}

func TestTrainingNeedsThreshold(t *testing.T) {
	db := warehousetest.Open(t)
	warehousetest.FieldUser(t, db, 1, "Asha Patil", "Nashik")
	warehousetest.FieldUser(t, db, 2, "Ravi Kumar", "Guntur")
	for i, id := range []string{"n1", "n2", "n3"} {
		created := fmt.Sprintf("2026-08-%02d 10:00:00", i+1)
		warehousetest.Conversation(t, db, id, 1, created, "pest", "seek_advice", "low", "negative")
	}
	warehousetest.Conversation(t, db, "n4", 2, "2026-08-01 10:00:00", "pest", "seek_advice", "low", "negative")

	conn := acquire(t, warehouse.New(db))
	rows, err := conn.TrainingNeeds(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1, "only agents past the negative threshold")
	assert.Equal(t, "Asha Patil", rows[0].AgentName)
	assert.Equal(t, "pest", rows[0].WeakArea)
	assert.Equal(t, 3, rows[0].NegativeCount)
	assert.Equal(t, "Needs training in pest", rows[0].Recommendation)
}

func TestCropOptionsExcludesPlaceholders(t *testing.T) {
	db := warehousetest.Open(t)
	warehousetest.Crop(t, db, 1, "Cotton", "Fibre")
	warehousetest.Crop(t, db, 2, "_OTHERS (PLEASE SPECIFY)", "(blank)")
	warehousetest.Crop(t, db, 3, "Paddy", "Cereal")
	warehousetest.Conversation(t, db, "c1", 1, "2026-08-01 10:00:00", "pest", "seek_advice", "low", "neutral")
	warehousetest.Entity(t, db, "c1", "crop", 1)
	warehousetest.Entity(t, db, "c1", "crop", 2)

	conn := acquire(t, warehouse.New(db))
	opts, err := conn.CropOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, opts, 1, "placeholder crops and crops without entities are excluded")
	assert.Equal(t, "Cotton", opts[0].CropName)
}

func TestCompleteness(t *testing.T) {
	db := warehousetest.Open(t)
	warehousetest.Conversation(t, db, "c1", 1, "2026-08-01 10:00:00", "pest", "seek_advice", "low", "neutral")
	warehousetest.Conversation(t, db, "c2", 1, "2026-08-02 10:00:00", "pest", "seek_advice", "low", "neutral")
	warehousetest.Entity(t, db, "c1", "crop", 1)
	warehousetest.Exec(t, db, `INSERT INTO fact_conversation_metrics (conversation_id, alert_flag) VALUES ('c1', 0)`)

	conn := acquire(t, warehouse.New(db))
	counts, err := conn.Completeness(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Total)
	assert.Equal(t, 2, counts.WithSemantics)
	assert.Equal(t, 1, counts.WithEntities)
	assert.Equal(t, 1, counts.WithMetrics)
}

func TestRecordedDateRange(t *testing.T) {
	db := warehousetest.Open(t)

	conn := acquire(t, warehouse.New(db))
	minDate, maxDate, err := conn.RecordedDateRange(context.Background())
	require.NoError(t, err)
	assert.Nil(t, minDate)
	assert.Nil(t, maxDate)

	warehousetest.Conversation(t, db, "c1", 1, "2026-08-01 10:00:00", "pest", "seek_advice", "low", "neutral")
	warehousetest.Conversation(t, db, "c2", 1, "2026-08-05 10:00:00", "pest", "seek_advice", "low", "neutral")

	minDate, maxDate, err = conn.RecordedDateRange(context.Background())
	require.NoError(t, err)
	require.NotNil(t, minDate)
	require.NotNil(t, maxDate)
	assert.Equal(t, "2026-08-01", *minDate)
	assert.Equal(t, "2026-08-05", *maxDate)
}

func TestTableCount(t *testing.T) {
	db := warehousetest.Open(t)
	warehousetest.Crop(t, db, 1, "Cotton", "Fibre")

	conn := acquire(t, warehouse.New(db))
	for _, table := range warehouse.StatTables {
		_, err := conn.TableCount(context.Background(), table)
		require.NoError(t, err, "table %s must exist", table)
	}
	count, err := conn.TableCount(context.Background(), "dim_crops")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
