package warehouse

import "context"

// AlertCount counts conversations flagged for alert within the range.
func (c *Conn) AlertCount(ctx context.Context, dr DateRange) (int, error) {
	clause, args := dateClause("fc.created_at", dr)
	var count int
	err := c.conn.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM fact_conversation_metrics fcm
		JOIN fact_conversations fc ON fcm.conversation_id = fc.conversation_id
		WHERE fcm.alert_flag = 1`+clause, args...).Scan(&count)
	return count, err
}

// MarketHealth averages sentiment mapped to a 0–100 score. Nil when no
// conversation in the range carries a sentiment.
func (c *Conn) MarketHealth(ctx context.Context, dr DateRange) (*float64, error) {
	clause, args := dateClause("fc.created_at", dr)
	var health *float64
	err := c.conn.QueryRowContext(ctx, `
		SELECT AVG(CASE
			WHEN overall_sentiment = 'positive' THEN 100
			WHEN overall_sentiment = 'neutral' THEN 50
			WHEN overall_sentiment = 'negative' THEN 0
		END)
		FROM fact_conversation_semantics fcs
		JOIN fact_conversations fc ON fcs.conversation_id = fc.conversation_id
		WHERE 1=1`+clause, args...).Scan(&health)
	return health, err
}

// ActivityCount counts conversations within the range.
func (c *Conn) ActivityCount(ctx context.Context, dr DateRange) (int, error) {
	clause, args := dateClause("fc.created_at", dr)
	var count int
	err := c.conn.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM fact_conversations fc
		WHERE 1=1`+clause, args...).Scan(&count)
	return count, err
}

// VolumeSentiment returns per-day conversation volume with the average
// sentiment score in [-1, 1].
func (c *Conn) VolumeSentiment(ctx context.Context, dr DateRange) ([]VolumeSentimentRow, error) {
	clause, args := dateClause("fc.created_at", dr)
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			DATE(fc.created_at) as date,
			COUNT(*) as volume,
			AVG(CASE
				WHEN fcs.overall_sentiment = 'positive' THEN 1
				WHEN fcs.overall_sentiment = 'neutral' THEN 0
				WHEN fcs.overall_sentiment = 'negative' THEN -1
			END) as sentiment_score
		FROM fact_conversations fc
		JOIN fact_conversation_semantics fcs ON fc.conversation_id = fcs.conversation_id
		WHERE 1=1`+clause+`
		GROUP BY DATE(fc.created_at)
		ORDER BY date`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VolumeSentimentRow
	for rows.Next() {
		var row VolumeSentimentRow
		if err := rows.Scan(&row.Date, &row.Volume, &row.Sentiment); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// TopTopics returns the most frequent primary topics.
func (c *Conn) TopTopics(ctx context.Context, limit int) ([]CategoryCount, error) {
	return c.categoryCounts(ctx, `
		SELECT
			primary_topic,
			COUNT(*) as count
		FROM fact_conversation_semantics
		GROUP BY primary_topic
		ORDER BY count DESC
		LIMIT ?`, limit)
}

// MarketShare counts distinct brand conversations per company, restricted to
// the comparison set.
func (c *Conn) MarketShare(ctx context.Context, companies CompanySet) ([]CategoryCount, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			dc.company_name,
			COUNT(DISTINCT fce.conversation_id) as mentions
		FROM fact_conversation_entities fce
		JOIN dim_brands db ON fce.entity_code = db.brand_code
		JOIN dim_companies dc ON db.company_code = dc.company_code
		WHERE fce.entity_type = 'brand'
		AND dc.company_code IN (`+placeholders(4)+`)
		GROUP BY dc.company_name
		ORDER BY mentions DESC`, companies.Codes()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategoryCounts(rows)
}

// CompetitivePosition ranks the comparison companies by share of all brand
// conversations. The score column is a placeholder constant.
func (c *Conn) CompetitivePosition(ctx context.Context, companies CompanySet) ([]CompetitivePositionRow, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			dc.company_name as brand,
			COUNT(DISTINCT fce.conversation_id) as mentions,
			ROUND(COUNT(DISTINCT fce.conversation_id) * 100.0 /
				(SELECT COUNT(DISTINCT conversation_id) FROM fact_conversation_entities WHERE entity_type = 'brand'), 1) as share,
			0 as score
		FROM fact_conversation_entities fce
		JOIN dim_brands db ON fce.entity_code = db.brand_code
		JOIN dim_companies dc ON db.company_code = dc.company_code
		WHERE fce.entity_type = 'brand'
		AND dc.company_code IN (`+placeholders(4)+`)
		GROUP BY dc.company_name
		ORDER BY share DESC
		LIMIT 3`, companies.Codes()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompetitivePositionRow
	for rows.Next() {
		var row CompetitivePositionRow
		if err := rows.Scan(&row.Brand, &row.Mentions, &row.Share, &row.Score); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ConversationDrivers returns the most frequent conversation intents.
func (c *Conn) ConversationDrivers(ctx context.Context, limit int) ([]CategoryCount, error) {
	return c.categoryCounts(ctx, `
		SELECT
			intent as driver,
			COUNT(*) as count
		FROM fact_conversation_semantics
		GROUP BY intent
		ORDER BY count DESC
		LIMIT ?`, limit)
}

// categoryCounts runs a query whose result is (category, count) rows.
func (c *Conn) categoryCounts(ctx context.Context, query string, args ...any) ([]CategoryCount, error) {
	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategoryCounts(rows)
}
