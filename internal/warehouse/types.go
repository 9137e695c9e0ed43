package warehouse

// Typed row records, one per query result shape. JSON tags mirror the column
// aliases the dashboard front end binds to, so rows that go out verbatim
// keep their wire contract.

// CropOption is one selectable crop in the dashboard filter dropdown.
type CropOption struct {
	CropCode int     `json:"crop_code"`
	CropName string  `json:"crop_name"`
	CropType *string `json:"crop_type"`
}

// CategoryCount is a (label, count) aggregation row, the backing shape of
// every single-series chart.
type CategoryCount struct {
	Category string
	Count    int
}

// DateCount is a per-day count row.
type DateCount struct {
	Date  string
	Count int
}

// DateCategoryCount is a (day × category) count cell, the backing shape of
// every multi-series pivot.
type DateCategoryCount struct {
	Date     string
	Category string
	Count    int
}

// VolumeSentimentRow is one day of conversation volume with its average
// sentiment score in [-1, 1], null when no conversation carried a sentiment.
type VolumeSentimentRow struct {
	Date      string
	Volume    int
	Sentiment *float64
}

// BrandHealthRow is one day of home-brand conversation volume with a health
// score. The score is a constant 50 until per-brand sentiment lands in the
// warehouse; see the brand-health-trend query.
type BrandHealthRow struct {
	Date   string
	Volume int
	Health float64
}

// DateScoreRow is a per-day score row (sentiment-style, 0–100).
type DateScoreRow struct {
	Date  string
	Score float64
}

// DateCompanyScore is a (day × company) sentiment cell.
type DateCompanyScore struct {
	Date    string
	Company string
	Score   float64
}

// CompetitivePositionRow ranks a company by share of brand conversations.
type CompetitivePositionRow struct {
	Brand    string  `json:"brand"`
	Mentions int     `json:"mentions"`
	Share    float64 `json:"share"`
	Score    int     `json:"score"`
}

// WordWeight is one word-cloud entry.
type WordWeight struct {
	Word   string
	Weight int
}

// LandscapeRow is one bubble in the competitive-landscape chart.
type LandscapeRow struct {
	CompanyName string `json:"company_name"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	R           int    `json:"r"`
}

// AssociationRow links a brand to a crop by co-mention count.
type AssociationRow struct {
	Parent string `json:"parent"`
	Label  string `json:"label"`
	Value  int    `json:"value"`
}

// UrgentIssue is one high/critical-urgency conversation.
type UrgentIssue struct {
	ConversationID   string `json:"conversation_id"`
	CreatedAt        string `json:"created_at"`
	UserText         string `json:"user_text"`
	Urgency          string `json:"urgency"`
	PrimaryTopic     string `json:"primary_topic"`
	OverallSentiment string `json:"overall_sentiment"`
}

// DemandChangeRow is one crop's demand level. Trend and ChangePct are
// placeholder constants until period-over-period comparison is built
// upstream.
type DemandChangeRow struct {
	CropName      string  `json:"crop_name"`
	CurrentDemand int     `json:"current_demand"`
	Trend         string  `json:"trend"`
	ChangePct     float64 `json:"change_pct"`
}

// HeatmapCell is one crop × pest co-mention count.
type HeatmapCell struct {
	CropName   string `json:"crop_name"`
	PestName   string `json:"pest_name"`
	CoMentions int    `json:"co_mentions"`
}

// FlowRow is one crop → pest → brand solution path.
type FlowRow struct {
	CropName  string `json:"crop_name"`
	PestName  string `json:"pest_name"`
	BrandName string `json:"brand_name"`
	FlowCount int    `json:"flow_count"`
}

// GroupedCount is a (label × bucket) count cell used for stacked sentiment
// charts.
type GroupedCount struct {
	Label  string
	Bucket string
	Count  int
}

// ScorecardRow summarizes one field agent's conversations.
type ScorecardRow struct {
	AgentName     string   `json:"agent_name"`
	TotalConvs    int      `json:"total_convs"`
	AvgSentiment  *float64 `json:"avg_sentiment"`
	UrgentHandled int      `json:"urgent_handled"`
}

// LeaderboardRow ranks one field agent.
type LeaderboardRow struct {
	AgentName        string   `json:"agent_name"`
	Conversations    int      `json:"conversations"`
	PerformanceScore *float64 `json:"performance_score"`
}

// FieldLeaderRow is one bubble in the field-leaders chart: volume on x,
// average sentiment on y, volume again as radius.
type FieldLeaderRow struct {
	Name string   `json:"name"`
	X    int      `json:"x"`
	Y    *float64 `json:"y"`
	R    int      `json:"r"`
}

// TopicValue is a (label, value) row returned verbatim.
type TopicValue struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// TrainingNeedRow flags an agent's weak topic by negative-conversation count.
type TrainingNeedRow struct {
	AgentName      string `json:"agent_name"`
	WeakArea       string `json:"weak_area"`
	NegativeCount  int    `json:"negative_count"`
	Recommendation string `json:"recommendation"`
}

// DashboardUser is one row of the dashboard-operator dimension table.
type DashboardUser struct {
	UserID    int     `json:"user_id"`
	Username  string  `json:"username"`
	FullName  *string `json:"full_name"`
	Role      *string `json:"role"`
	CreatedAt *string `json:"created_at"`
}

// ActivityLogRow summarizes one warehouse user's conversation activity.
type ActivityLogRow struct {
	UserName      string  `json:"user_name"`
	ActivityCount int     `json:"activity_count"`
	LastActive    *string `json:"last_active"`
	Location      *string `json:"location"`
}

// CompletenessCounts carries the raw totals behind the data-completeness KPI.
type CompletenessCounts struct {
	Total         int
	WithSemantics int
	WithEntities  int
	WithMetrics   int
}

// CompanyBrandCount is one company with its brand-catalog size.
type CompanyBrandCount struct {
	CompanyCode int    `json:"company_code"`
	CompanyName string `json:"company_name"`
	BrandCount  int    `json:"brand_count"`
}

// CompanyMentions is one company with its brand-conversation reach.
type CompanyMentions struct {
	CompanyCode int    `json:"company_code"`
	CompanyName string `json:"company_name"`
	Mentions    int    `json:"mentions"`
}
