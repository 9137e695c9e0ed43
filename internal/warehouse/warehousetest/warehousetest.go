// Package warehousetest seeds throwaway in-memory warehouses for tests.
// The schema mirrors the tables the external analytics pipeline writes.
package warehousetest

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE fact_conversations (
	conversation_id TEXT PRIMARY KEY,
	user_id         INTEGER,
	user_text       TEXT,
	created_at      TEXT,
	date_recorded   TEXT
);

CREATE TABLE fact_conversation_semantics (
	conversation_id   TEXT,
	primary_topic     TEXT,
	intent            TEXT,
	urgency           TEXT,
	overall_sentiment TEXT
);

CREATE TABLE fact_conversation_entities (
	conversation_id TEXT,
	entity_type     TEXT,
	entity_code     INTEGER
);

CREATE TABLE fact_conversation_metrics (
	conversation_id TEXT,
	alert_flag      INTEGER
);

CREATE TABLE dim_companies (
	company_code INTEGER PRIMARY KEY,
	company_name TEXT
);

CREATE TABLE dim_brands (
	brand_code   INTEGER PRIMARY KEY,
	brand_name   TEXT,
	company_code INTEGER
);

CREATE TABLE dim_crops (
	crop_code INTEGER PRIMARY KEY,
	crop_name TEXT,
	crop_type TEXT
);

CREATE TABLE dim_pests (
	pest_code INTEGER PRIMARY KEY,
	pest_name TEXT
);

CREATE TABLE dim_user (
	user_id   INTEGER PRIMARY KEY,
	full_name TEXT,
	district  TEXT
);

CREATE TABLE dim_dashboard_users (
	user_id    INTEGER PRIMARY KEY,
	username   TEXT,
	full_name  TEXT,
	role       TEXT,
	created_at TEXT
);

CREATE TABLE mart_crop_pest_matrix (
	crop_name   TEXT,
	pest_name   TEXT,
	co_mentions INTEGER
);

CREATE TABLE mart_crop_pest_brand_flow (
	crop_name  TEXT,
	pest_name  TEXT,
	brand_name TEXT,
	flow_count INTEGER
);

CREATE TABLE mart_brand_crop_matrix (
	brand_code  INTEGER,
	crop_name   TEXT,
	co_mentions INTEGER
);
`

// Open returns an in-memory database with the warehouse schema applied.
// The handle is closed when the test finishes.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory warehouse: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// A :memory: handle vanishes when its connection is recycled.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("apply warehouse schema: %v", err)
	}
	return db
}

// Exec runs one statement against the seeded warehouse, failing the test on
// error.
func Exec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}
}

// Conversation inserts a conversation fact with its semantic annotation.
func Conversation(t *testing.T, db *sql.DB, id string, userID int, createdAt, topic, intent, urgency, sentiment string) {
	t.Helper()
	Exec(t, db, `INSERT INTO fact_conversations (conversation_id, user_id, user_text, created_at, date_recorded)
		VALUES (?, ?, ?, ?, DATE(?))`, id, userID, "text for "+id, createdAt, createdAt)
	Exec(t, db, `INSERT INTO fact_conversation_semantics (conversation_id, primary_topic, intent, urgency, overall_sentiment)
		VALUES (?, ?, ?, ?, ?)`, id, topic, intent, urgency, sentiment)
}

// Entity links a conversation to an extracted entity.
func Entity(t *testing.T, db *sql.DB, conversationID, entityType string, entityCode int) {
	t.Helper()
	Exec(t, db, `INSERT INTO fact_conversation_entities (conversation_id, entity_type, entity_code)
		VALUES (?, ?, ?)`, conversationID, entityType, entityCode)
}

// Company inserts a company dimension row.
func Company(t *testing.T, db *sql.DB, code int, name string) {
	t.Helper()
	Exec(t, db, `INSERT INTO dim_companies (company_code, company_name) VALUES (?, ?)`, code, name)
}

// Brand inserts a brand dimension row.
func Brand(t *testing.T, db *sql.DB, code int, name string, companyCode int) {
	t.Helper()
	Exec(t, db, `INSERT INTO dim_brands (brand_code, brand_name, company_code) VALUES (?, ?, ?)`, code, name, companyCode)
}

// Crop inserts a crop dimension row.
func Crop(t *testing.T, db *sql.DB, code int, name, cropType string) {
	t.Helper()
	Exec(t, db, `INSERT INTO dim_crops (crop_code, crop_name, crop_type) VALUES (?, ?, ?)`, code, name, cropType)
}

// FieldUser inserts a warehouse user dimension row.
func FieldUser(t *testing.T, db *sql.DB, id int, fullName, district string) {
	t.Helper()
	Exec(t, db, `INSERT INTO dim_user (user_id, full_name, district) VALUES (?, ?, ?)`, id, fullName, district)
}
