package warehouse

import (
	"context"
	"database/sql"
)

// StatTables is the fixed set of warehouse tables the admin db-stats
// endpoint reports row counts for.
var StatTables = []string{
	"fact_conversations",
	"fact_conversation_entities",
	"fact_conversation_semantics",
	"dim_brands",
	"dim_crops",
	"dim_pests",
	"dim_user",
}

// DashboardUsers lists the dashboard-operator dimension rows.
func (c *Conn) DashboardUsers(ctx context.Context) ([]DashboardUser, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT user_id, username, full_name, role, created_at
		FROM dim_dashboard_users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DashboardUser
	for rows.Next() {
		var row DashboardUser
		if err := rows.Scan(&row.UserID, &row.Username, &row.FullName, &row.Role, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// UserActivityLog summarizes each warehouse user's conversation activity,
// including users with none.
func (c *Conn) UserActivityLog(ctx context.Context, limit int) ([]ActivityLogRow, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			du.full_name as user_name,
			COUNT(fc.conversation_id) as activity_count,
			MAX(fc.created_at) as last_active,
			du.district as location
		FROM dim_user du
		LEFT JOIN fact_conversations fc ON du.user_id = fc.user_id
		GROUP BY du.full_name, du.district
		ORDER BY activity_count DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActivityLogRow
	for rows.Next() {
		var row ActivityLogRow
		if err := rows.Scan(&row.UserName, &row.ActivityCount, &row.LastActive, &row.Location); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Completeness returns the raw counts behind the data-completeness KPI.
func (c *Conn) Completeness(ctx context.Context) (CompletenessCounts, error) {
	var counts CompletenessCounts

	if err := c.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fact_conversations`).Scan(&counts.Total); err != nil {
		return counts, err
	}
	if err := c.conn.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT conversation_id) FROM fact_conversation_semantics`).Scan(&counts.WithSemantics); err != nil {
		return counts, err
	}
	if err := c.conn.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT conversation_id) FROM fact_conversation_entities`).Scan(&counts.WithEntities); err != nil {
		return counts, err
	}
	if err := c.conn.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT conversation_id) FROM fact_conversation_metrics`).Scan(&counts.WithMetrics); err != nil {
		return counts, err
	}
	return counts, nil
}

// TableCount counts the rows of one warehouse table. The table name is
// interpolated, so callers must pass only entries from StatTables.
func (c *Conn) TableCount(ctx context.Context, table string) (int, error) {
	var count int
	err := c.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count)
	return count, err
}

// RecordedDateRange returns the min and max recorded dates across
// conversations, nil when the warehouse is empty.
func (c *Conn) RecordedDateRange(ctx context.Context) (minDate, maxDate *string, err error) {
	err = c.conn.QueryRowContext(ctx, `
		SELECT
			MIN(date_recorded) as min_date,
			MAX(date_recorded) as max_date
		FROM fact_conversations`).Scan(&minDate, &maxDate)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	return minDate, maxDate, err
}

// CompanyBrandCounts lists every company with the size of its brand catalog.
func (c *Conn) CompanyBrandCounts(ctx context.Context) ([]CompanyBrandCount, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT dc.company_code, dc.company_name, COUNT(db.brand_code) as brand_count
		FROM dim_companies dc
		LEFT JOIN dim_brands db ON dc.company_code = db.company_code
		GROUP BY dc.company_code, dc.company_name
		ORDER BY brand_count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompanyBrandCount
	for rows.Next() {
		var row CompanyBrandCount
		if err := rows.Scan(&row.CompanyCode, &row.CompanyName, &row.BrandCount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CompaniesWithData lists companies whose brands actually appear in
// conversations, by distinct conversation reach.
func (c *Conn) CompaniesWithData(ctx context.Context) ([]CompanyMentions, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT DISTINCT dc.company_code, dc.company_name, COUNT(DISTINCT fce.conversation_id) as mentions
		FROM dim_companies dc
		JOIN dim_brands db ON dc.company_code = db.company_code
		JOIN fact_conversation_entities fce ON db.brand_code = fce.entity_code
		WHERE fce.entity_type = 'brand'
		GROUP BY dc.company_code, dc.company_name
		ORDER BY mentions DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompanyMentions
	for rows.Next() {
		var row CompanyMentions
		if err := rows.Scan(&row.CompanyCode, &row.CompanyName, &row.Mentions); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
