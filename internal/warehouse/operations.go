package warehouse

import "context"

// UrgentIssues returns the most recent high/critical-urgency conversations.
func (c *Conn) UrgentIssues(ctx context.Context, limit int) ([]UrgentIssue, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			fc.conversation_id,
			fc.created_at,
			fc.user_text,
			fcs.urgency,
			fcs.primary_topic,
			fcs.overall_sentiment
		FROM fact_conversations fc
		JOIN fact_conversation_semantics fcs ON fc.conversation_id = fcs.conversation_id
		WHERE fcs.urgency IN ('high', 'critical')
		ORDER BY fc.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UrgentIssue
	for rows.Next() {
		var row UrgentIssue
		if err := rows.Scan(&row.ConversationID, &row.CreatedAt, &row.UserText,
			&row.Urgency, &row.PrimaryTopic, &row.OverallSentiment); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DemandSignalTrend counts purchase-leaning conversations per day.
func (c *Conn) DemandSignalTrend(ctx context.Context, dr DateRange) ([]DateCount, error) {
	clause, args := dateClause("fc.created_at", dr)
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			DATE(fc.created_at) as date,
			COUNT(CASE WHEN fcs.intent IN ('purchase', 'request_info', 'seek_advice') THEN 1 END) as demand_signal
		FROM fact_conversations fc
		JOIN fact_conversation_semantics fcs ON fc.conversation_id = fcs.conversation_id
		WHERE 1=1`+clause+`
		GROUP BY DATE(fc.created_at)
		ORDER BY date`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DateCount
	for rows.Next() {
		var row DateCount
		if err := rows.Scan(&row.Date, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DemandChangeAlert ranks crops by current mention volume. The trend and
// change_pct columns are placeholder constants until period-over-period
// comparison is built.
func (c *Conn) DemandChangeAlert(ctx context.Context, limit int) ([]DemandChangeRow, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			dc.crop_name,
			COUNT(*) as current_demand,
			'stable' as trend,
			0 as change_pct
		FROM fact_conversation_entities fce
		JOIN dim_crops dc ON fce.entity_code = dc.crop_code
		WHERE fce.entity_type = 'crop'
		GROUP BY dc.crop_name
		ORDER BY current_demand DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DemandChangeRow
	for rows.Next() {
		var row DemandChangeRow
		if err := rows.Scan(&row.CropName, &row.CurrentDemand, &row.Trend, &row.ChangePct); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CropPestHeatmap returns the strongest crop × pest co-mentions from the
// precomputed mart.
func (c *Conn) CropPestHeatmap(ctx context.Context, limit int) ([]HeatmapCell, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			crop_name,
			pest_name,
			co_mentions
		FROM mart_crop_pest_matrix
		ORDER BY co_mentions DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HeatmapCell
	for rows.Next() {
		var row HeatmapCell
		if err := rows.Scan(&row.CropName, &row.PestName, &row.CoMentions); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ProblemTrend returns (day × problem-topic) counts for the fixed problem
// topic set.
func (c *Conn) ProblemTrend(ctx context.Context, dr DateRange) ([]DateCategoryCount, error) {
	clause, args := dateClause("fc.created_at", dr)
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			DATE(fc.created_at) as date,
			fcs.primary_topic as topic,
			COUNT(*) as count
		FROM fact_conversations fc
		JOIN fact_conversation_semantics fcs ON fc.conversation_id = fcs.conversation_id
		WHERE fcs.primary_topic IN ('pest', 'disease', 'weed', 'crop_damage')`+clause+`
		GROUP BY DATE(fc.created_at), fcs.primary_topic
		ORDER BY date`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDateCategoryCounts(rows)
}

// ProblemSentiment returns (problem-topic × sentiment) counts.
func (c *Conn) ProblemSentiment(ctx context.Context) ([]GroupedCount, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			fcs.primary_topic as topic,
			fcs.overall_sentiment as sentiment,
			COUNT(*) as count
		FROM fact_conversation_semantics fcs
		WHERE fcs.primary_topic IN ('pest', 'disease', 'weed')
		GROUP BY fcs.primary_topic, fcs.overall_sentiment
		ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroupedCounts(rows)
}

// CropKeywords returns crop names weighted by distinct conversation count,
// for the word cloud.
func (c *Conn) CropKeywords(ctx context.Context, limit int) ([]WordWeight, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			dc.crop_name as word,
			COUNT(DISTINCT fce.conversation_id) as weight
		FROM fact_conversation_entities fce
		JOIN dim_crops dc ON fce.entity_code = dc.crop_code
		WHERE fce.entity_type = 'crop'
		AND dc.crop_name NOT IN ('_OTHERS (PLEASE SPECIFY)', 'No Crop')
		AND dc.crop_name IS NOT NULL
		GROUP BY dc.crop_name
		ORDER BY weight DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWordWeights(rows)
}

// CropKeywordFallback lists crops straight from the dimension table with
// unit weight, used when no crop entity has been extracted yet.
func (c *Conn) CropKeywordFallback(ctx context.Context, limit int) ([]WordWeight, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT DISTINCT crop_name as word, 1 as weight
		FROM dim_crops
		WHERE crop_name NOT IN ('_OTHERS (PLEASE SPECIFY)', 'No Crop')
		AND crop_name IS NOT NULL
		AND crop_type != '(blank)'
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWordWeights(rows)
}

// SolutionFlow returns the strongest crop → pest → brand paths from the
// precomputed mart.
func (c *Conn) SolutionFlow(ctx context.Context, limit int) ([]FlowRow, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			crop_name,
			pest_name,
			brand_name,
			flow_count
		FROM mart_crop_pest_brand_flow
		ORDER BY flow_count DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FlowRow
	for rows.Next() {
		var row FlowRow
		if err := rows.Scan(&row.CropName, &row.PestName, &row.BrandName, &row.FlowCount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SolutionEffectiveness ranks brands by distinct conversation reach.
func (c *Conn) SolutionEffectiveness(ctx context.Context, limit int) ([]CategoryCount, error) {
	return c.categoryCounts(ctx, `
		SELECT
			db.brand_name as solution,
			COUNT(DISTINCT fce.conversation_id) as effectiveness
		FROM fact_conversation_entities fce
		JOIN dim_brands db ON fce.entity_code = db.brand_code
		WHERE fce.entity_type = 'brand'
		GROUP BY db.brand_name
		ORDER BY effectiveness DESC
		LIMIT ?`, limit)
}

// SolutionSentiment returns per-day sentiment for brand conversations. The
// sentiment column is a constant 50 until brand-level sentiment rollups
// exist.
func (c *Conn) SolutionSentiment(ctx context.Context, dr DateRange) ([]DateScoreRow, error) {
	clause, args := dateClause("fc.created_at", dr)
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			DATE(fc.created_at) as date,
			50 as sentiment
		FROM fact_conversations fc
		JOIN fact_conversation_entities fce ON fc.conversation_id = fce.conversation_id
		WHERE fce.entity_type = 'brand'`+clause+`
		GROUP BY DATE(fc.created_at)
		HAVING COUNT(*) > 0
		ORDER BY date`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DateScoreRow
	for rows.Next() {
		var row DateScoreRow
		if err := rows.Scan(&row.Date, &row.Score); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CropMentionCounts returns per-crop conversation-entity counts, excluding
// placeholder crops, most-mentioned first.
func (c *Conn) CropMentionCounts(ctx context.Context) ([]CategoryCount, error) {
	return c.categoryCounts(ctx, `
		SELECT
			dc.crop_name,
			COUNT(*) as count
		FROM fact_conversation_entities fce
		JOIN dim_crops dc ON fce.entity_code = dc.crop_code
		WHERE fce.entity_type = 'crop'
		AND dc.crop_name NOT IN ('_OTHERS (PLEASE SPECIFY)', 'No Crop')
		GROUP BY dc.crop_name
		ORDER BY count DESC`)
}
