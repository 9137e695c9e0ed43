package warehouse

import "context"

// ConversationsByRegion counts conversations per user district.
func (c *Conn) ConversationsByRegion(ctx context.Context, limit int) ([]CategoryCount, error) {
	return c.categoryCounts(ctx, `
		SELECT
			du.district as region,
			COUNT(*) as count
		FROM fact_conversations fc
		JOIN dim_user du ON fc.user_id = du.user_id
		GROUP BY du.district
		ORDER BY count DESC
		LIMIT ?`, limit)
}

// TeamUrgency counts conversations per urgency level.
func (c *Conn) TeamUrgency(ctx context.Context) ([]CategoryCount, error) {
	return c.categoryCounts(ctx, `
		SELECT
			urgency,
			COUNT(*) as count
		FROM fact_conversation_semantics
		GROUP BY urgency`)
}

// TeamIntent returns the most frequent conversation intents.
func (c *Conn) TeamIntent(ctx context.Context, limit int) ([]CategoryCount, error) {
	return c.categoryCounts(ctx, `
		SELECT
			intent,
			COUNT(*) as count
		FROM fact_conversation_semantics
		GROUP BY intent
		ORDER BY count DESC
		LIMIT ?`, limit)
}

// QualityByRegion returns (district × sentiment) counts.
func (c *Conn) QualityByRegion(ctx context.Context, limit int) ([]GroupedCount, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			du.district as region,
			fcs.overall_sentiment as sentiment,
			COUNT(*) as count
		FROM fact_conversations fc
		JOIN dim_user du ON fc.user_id = du.user_id
		JOIN fact_conversation_semantics fcs ON fc.conversation_id = fcs.conversation_id
		GROUP BY du.district, fcs.overall_sentiment
		ORDER BY count DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroupedCounts(rows)
}

// AgentScorecard summarizes each field agent's conversations, highest volume
// first.
func (c *Conn) AgentScorecard(ctx context.Context, limit int) ([]ScorecardRow, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			du.full_name as agent_name,
			COUNT(fc.conversation_id) as total_convs,
			AVG(CASE
				WHEN fcs.overall_sentiment = 'positive' THEN 100
				WHEN fcs.overall_sentiment = 'neutral' THEN 50
				WHEN fcs.overall_sentiment = 'negative' THEN 0
			END) as avg_sentiment,
			COUNT(CASE WHEN fcs.urgency IN ('high', 'critical') THEN 1 END) as urgent_handled
		FROM fact_conversations fc
		JOIN dim_user du ON fc.user_id = du.user_id
		JOIN fact_conversation_semantics fcs ON fc.conversation_id = fcs.conversation_id
		GROUP BY du.full_name
		ORDER BY total_convs DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScorecardRow
	for rows.Next() {
		var row ScorecardRow
		if err := rows.Scan(&row.AgentName, &row.TotalConvs, &row.AvgSentiment, &row.UrgentHandled); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// AgentLeaderboard ranks field agents by a 1–3 sentiment performance score,
// conversation volume as tiebreaker.
func (c *Conn) AgentLeaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			du.full_name as agent_name,
			COUNT(fc.conversation_id) as conversations,
			AVG(CASE
				WHEN fcs.overall_sentiment = 'positive' THEN 3
				WHEN fcs.overall_sentiment = 'neutral' THEN 2
				WHEN fcs.overall_sentiment = 'negative' THEN 1
			END) as performance_score
		FROM fact_conversations fc
		JOIN dim_user du ON fc.user_id = du.user_id
		JOIN fact_conversation_semantics fcs ON fc.conversation_id = fcs.conversation_id
		GROUP BY du.full_name
		ORDER BY performance_score DESC, conversations DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.AgentName, &row.Conversations, &row.PerformanceScore); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// AgentPerfTrend returns (day × agent) conversation counts.
func (c *Conn) AgentPerfTrend(ctx context.Context, dr DateRange) ([]DateCategoryCount, error) {
	clause, args := dateClause("fc.created_at", dr)
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			DATE(fc.created_at) as date,
			du.full_name as agent,
			COUNT(*) as conversations
		FROM fact_conversations fc
		JOIN dim_user du ON fc.user_id = du.user_id
		WHERE 1=1`+clause+`
		GROUP BY DATE(fc.created_at), du.full_name
		ORDER BY date`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDateCategoryCounts(rows)
}

// FieldLeaders returns one bubble per agent: volume on x, average sentiment
// score on y, volume again as radius.
func (c *Conn) FieldLeaders(ctx context.Context, limit int) ([]FieldLeaderRow, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			du.full_name as name,
			COUNT(fc.conversation_id) as x,
			AVG(CASE
				WHEN fcs.overall_sentiment = 'positive' THEN 100
				WHEN fcs.overall_sentiment = 'neutral' THEN 50
				WHEN fcs.overall_sentiment = 'negative' THEN 0
			END) as y,
			COUNT(fc.conversation_id) as r
		FROM fact_conversations fc
		JOIN dim_user du ON fc.user_id = du.user_id
		JOIN fact_conversation_semantics fcs ON fc.conversation_id = fcs.conversation_id
		GROUP BY du.full_name
		ORDER BY x DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FieldLeaderRow
	for rows.Next() {
		var row FieldLeaderRow
		if err := rows.Scan(&row.Name, &row.X, &row.Y, &row.R); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// EntityTypeCounts counts extracted entities per entity type.
func (c *Conn) EntityTypeCounts(ctx context.Context) ([]CategoryCount, error) {
	return c.categoryCounts(ctx, `
		SELECT
			fce.entity_type,
			COUNT(*) as count
		FROM fact_conversation_entities fce
		WHERE fce.entity_type IN ('brand', 'crop', 'pest')
		GROUP BY fce.entity_type
		ORDER BY count DESC`)
}

// TopicValues returns every primary topic with its conversation count.
func (c *Conn) TopicValues(ctx context.Context) ([]TopicValue, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			primary_topic as label,
			COUNT(*) as value
		FROM fact_conversation_semantics
		GROUP BY primary_topic
		ORDER BY value DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopicValue
	for rows.Next() {
		var row TopicValue
		if err := rows.Scan(&row.Label, &row.Value); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// TrainingNeeds flags agent × topic pairs with more than two negative
// conversations.
func (c *Conn) TrainingNeeds(ctx context.Context, limit int) ([]TrainingNeedRow, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT
			du.full_name as agent_name,
			fcs.primary_topic as weak_area,
			COUNT(CASE WHEN fcs.overall_sentiment = 'negative' THEN 1 END) as negative_count,
			'Needs training in ' || fcs.primary_topic as recommendation
		FROM fact_conversations fc
		JOIN dim_user du ON fc.user_id = du.user_id
		JOIN fact_conversation_semantics fcs ON fc.conversation_id = fcs.conversation_id
		WHERE fcs.overall_sentiment = 'negative'
		GROUP BY du.full_name, fcs.primary_topic
		HAVING COUNT(CASE WHEN fcs.overall_sentiment = 'negative' THEN 1 END) > 2
		ORDER BY negative_count DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrainingNeedRow
	for rows.Next() {
		var row TrainingNeedRow
		if err := rows.Scan(&row.AgentName, &row.WeakArea, &row.NegativeCount, &row.Recommendation); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
