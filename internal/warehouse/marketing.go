package warehouse

import "context"

// BrandHealthTrend returns per-day home-brand conversation volume. The
// health column is a constant 50 until per-brand sentiment scoring lands in
// the warehouse pipeline.
func (c *Conn) BrandHealthTrend(ctx context.Context, homeCode int, dr DateRange) ([]BrandHealthRow, error) {
	clause, args := dateClause("fc.created_at", dr)
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			DATE(fc.created_at) as date,
			COUNT(*) as volume,
			50 as health
		FROM fact_conversations fc
		JOIN fact_conversation_entities fce ON fc.conversation_id = fce.conversation_id
		JOIN dim_brands db ON fce.entity_code = db.brand_code
		WHERE db.company_code = ?
		AND fce.entity_type = 'brand'`+clause+`
		GROUP BY DATE(fc.created_at)
		ORDER BY date`, append([]any{homeCode}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BrandHealthRow
	for rows.Next() {
		var row BrandHealthRow
		if err := rows.Scan(&row.Date, &row.Volume, &row.Health); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// TopicVolumeByDate returns (day × topic) conversation counts.
func (c *Conn) TopicVolumeByDate(ctx context.Context, dr DateRange) ([]DateCategoryCount, error) {
	clause, args := dateClause("fc.created_at", dr)
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			DATE(fc.created_at) as date,
			fcs.primary_topic,
			COUNT(*) as count
		FROM fact_conversations fc
		JOIN fact_conversation_semantics fcs ON fc.conversation_id = fcs.conversation_id
		WHERE 1=1`+clause+`
		GROUP BY DATE(fc.created_at), fcs.primary_topic
		ORDER BY date, count DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDateCategoryCounts(rows)
}

// BrandKeywords returns the home company's brand names weighted by mention
// count, for the word cloud.
func (c *Conn) BrandKeywords(ctx context.Context, homeCode, limit int) ([]WordWeight, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			db.brand_name as word,
			COUNT(*) as weight
		FROM fact_conversation_entities fce
		JOIN dim_brands db ON fce.entity_code = db.brand_code
		WHERE fce.entity_type = 'brand'
		AND db.company_code = ?
		GROUP BY db.brand_name
		ORDER BY weight DESC
		LIMIT ?`, homeCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWordWeights(rows)
}

// MarketShareTrend returns (day × company) distinct brand-conversation
// counts restricted to the comparison set.
func (c *Conn) MarketShareTrend(ctx context.Context, companies CompanySet, dr DateRange) ([]DateCategoryCount, error) {
	clause, args := dateClause("fc.created_at", dr)
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			DATE(fc.created_at) as date,
			dc.company_name,
			COUNT(DISTINCT fce.conversation_id) as mentions
		FROM fact_conversations fc
		JOIN fact_conversation_entities fce ON fc.conversation_id = fce.conversation_id
		JOIN dim_brands db ON fce.entity_code = db.brand_code
		JOIN dim_companies dc ON db.company_code = dc.company_code
		WHERE fce.entity_type = 'brand'
		AND dc.company_code IN (`+placeholders(4)+`)`+clause+`
		GROUP BY DATE(fc.created_at), dc.company_name
		ORDER BY date`, append(companies.Codes(), args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDateCategoryCounts(rows)
}

// CompetitiveLandscape returns one bubble per comparison company. The y axis
// is a placeholder constant until a positioning score exists.
func (c *Conn) CompetitiveLandscape(ctx context.Context, companies CompanySet) ([]LandscapeRow, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			dc.company_name,
			COUNT(DISTINCT fce.conversation_id) as x,
			0 as y,
			COUNT(DISTINCT fce.conversation_id) as r
		FROM fact_conversation_entities fce
		JOIN dim_brands db ON fce.entity_code = db.brand_code
		JOIN dim_companies dc ON db.company_code = dc.company_code
		WHERE fce.entity_type = 'brand'
		AND dc.company_code IN (`+placeholders(4)+`)
		GROUP BY dc.company_name`, companies.Codes()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LandscapeRow
	for rows.Next() {
		var row LandscapeRow
		if err := rows.Scan(&row.CompanyName, &row.X, &row.Y, &row.R); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SentimentByCompetitor returns (day × company) sentiment cells for the
// comparison set. The sentiment column is a constant 50 until per-company
// sentiment rollups land in the warehouse.
func (c *Conn) SentimentByCompetitor(ctx context.Context, companies CompanySet, dr DateRange) ([]DateCompanyScore, error) {
	clause, args := dateClause("fc.created_at", dr)
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			DATE(fc.created_at) as date,
			dc.company_name,
			50 as sentiment
		FROM fact_conversations fc
		JOIN fact_conversation_entities fce ON fc.conversation_id = fce.conversation_id
		JOIN dim_brands db ON fce.entity_code = db.brand_code
		JOIN dim_companies dc ON db.company_code = dc.company_code
		WHERE fce.entity_type = 'brand'
		AND dc.company_code IN (`+placeholders(4)+`)`+clause+`
		GROUP BY DATE(fc.created_at), dc.company_name
		ORDER BY date`, append(companies.Codes(), args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DateCompanyScore
	for rows.Next() {
		var row DateCompanyScore
		if err := rows.Scan(&row.Date, &row.Company, &row.Score); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// BrandCropAssociation returns the home company's brand → crop co-mention
// pairs from the precomputed mart.
func (c *Conn) BrandCropAssociation(ctx context.Context, homeCode int) ([]AssociationRow, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			db.brand_name as parent,
			mbcm.crop_name as label,
			mbcm.co_mentions as value
		FROM mart_brand_crop_matrix mbcm
		JOIN dim_brands db ON mbcm.brand_code = db.brand_code
		WHERE db.company_code = ?
		AND mbcm.co_mentions > 0
		ORDER BY db.brand_name, mbcm.co_mentions DESC`, homeCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AssociationRow
	for rows.Next() {
		var row AssociationRow
		if err := rows.Scan(&row.Parent, &row.Label, &row.Value); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
