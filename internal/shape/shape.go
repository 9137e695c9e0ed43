// Package shape pivots flat warehouse rows into the label/dataset envelopes
// the dashboard charts bind to.
package shape

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/fieldpulse/fieldpulse/internal/warehouse"
)

// Series is a single-series chart payload.
type Series struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// Dataset is one named series of a multi-series chart.
type Dataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
}

// Grid is a multi-series chart payload with zero-filled cells.
type Grid struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// FloatDataset is one named series of score values, null where a cell has
// no data.
type FloatDataset struct {
	Label string     `json:"label"`
	Data  []*float64 `json:"data"`
}

// FloatGrid is a multi-series score payload. Missing cells stay null so the
// chart can distinguish "no data" from a zero score.
type FloatGrid struct {
	Labels   []string       `json:"labels"`
	Datasets []FloatDataset `json:"datasets"`
}

// CloudWord is one word-cloud entry.
type CloudWord struct {
	Text string `json:"text"`
	Size int    `json:"size"`
}

// VolumeSeries pairs per-day conversation volume with a sentiment score.
type VolumeSeries struct {
	Labels    []string  `json:"labels"`
	Volume    []int     `json:"volume"`
	Sentiment []float64 `json:"sentiment"`
}

// HealthSeries pairs per-day conversation volume with a brand health score.
type HealthSeries struct {
	Labels []string  `json:"labels"`
	Volume []int     `json:"volume"`
	Health []float64 `json:"health"`
}

// ScoreSeries is a single score series, null where a day has no score.
type ScoreSeries struct {
	Labels []string   `json:"labels"`
	Data   []*float64 `json:"data"`
}

// CategorySeries maps (category, count) rows onto a Series in row order.
func CategorySeries(rows []warehouse.CategoryCount) Series {
	s := Series{Labels: []string{}, Data: []int{}}
	for _, row := range rows {
		s.Labels = append(s.Labels, row.Category)
		s.Data = append(s.Data, row.Count)
	}
	return s
}

// DateSeries maps (date, count) rows onto a Series in row order.
func DateSeries(rows []warehouse.DateCount) Series {
	s := Series{Labels: []string{}, Data: []int{}}
	for _, row := range rows {
		s.Labels = append(s.Labels, row.Date)
		s.Data = append(s.Data, row.Count)
	}
	return s
}

// WordCloud maps word-weight rows onto cloud entries, dropping empty words.
func WordCloud(rows []warehouse.WordWeight) []CloudWord {
	out := []CloudWord{}
	for _, row := range rows {
		if row.Word == "" {
			continue
		}
		out = append(out, CloudWord{Text: row.Word, Size: row.Weight})
	}
	return out
}

// VolumeSentiment shapes per-day volume rows, scaling the [-1, 1] average
// sentiment to a percentage. Days without a sentiment report 0.
func VolumeSentiment(rows []warehouse.VolumeSentimentRow) VolumeSeries {
	s := VolumeSeries{Labels: []string{}, Volume: []int{}, Sentiment: []float64{}}
	for _, row := range rows {
		s.Labels = append(s.Labels, row.Date)
		s.Volume = append(s.Volume, row.Volume)
		if row.Sentiment != nil && *row.Sentiment != 0 {
			s.Sentiment = append(s.Sentiment, Round2(*row.Sentiment*100))
		} else {
			s.Sentiment = append(s.Sentiment, 0)
		}
	}
	return s
}

// BrandHealth shapes per-day brand volume rows with their health scores.
func BrandHealth(rows []warehouse.BrandHealthRow) HealthSeries {
	s := HealthSeries{Labels: []string{}, Volume: []int{}, Health: []float64{}}
	for _, row := range rows {
		s.Labels = append(s.Labels, row.Date)
		s.Volume = append(s.Volume, row.Volume)
		s.Health = append(s.Health, Round2(row.Health))
	}
	return s
}

// DateScores shapes per-day score rows into a single rounded score series.
func DateScores(rows []warehouse.DateScoreRow) ScoreSeries {
	s := ScoreSeries{Labels: []string{}, Data: []*float64{}}
	for _, row := range rows {
		s.Labels = append(s.Labels, row.Date)
		v := Round2(row.Score)
		s.Data = append(s.Data, &v)
	}
	return s
}

// PivotCounts pivots (date, category, count) rows into a Grid: the sorted
// distinct dates become labels, each category becomes a dataset in
// first-seen order, missing cells default to 0. maxCategories caps the
// dataset count; zero or negative keeps them all.
func PivotCounts(rows []warehouse.DateCategoryCount, maxCategories int) Grid {
	dates := distinctDates(rows)
	dateIdx := make(map[string]int, len(dates))
	for i, d := range dates {
		dateIdx[d] = i
	}

	var categories []string
	seen := make(map[string]bool)
	for _, row := range rows {
		if seen[row.Category] {
			continue
		}
		if maxCategories > 0 && len(categories) >= maxCategories {
			continue
		}
		seen[row.Category] = true
		categories = append(categories, row.Category)
	}

	data := make(map[string][]int, len(categories))
	for _, cat := range categories {
		data[cat] = make([]int, len(dates))
	}
	for _, row := range rows {
		if cells, ok := data[row.Category]; ok {
			cells[dateIdx[row.Date]] = row.Count
		}
	}

	g := Grid{Labels: dates, Datasets: []Dataset{}}
	for _, cat := range categories {
		g.Datasets = append(g.Datasets, Dataset{Label: cat, Data: data[cat]})
	}
	return g
}

// FixedPivotCounts pivots (date, category, count) rows like PivotCounts,
// but over an explicit category list: every category gets a zero-filled
// dataset in the given order even when it has no rows, and rows outside the
// list are dropped.
func FixedPivotCounts(rows []warehouse.DateCategoryCount, categories []string) Grid {
	dates := distinctDates(rows)
	dateIdx := make(map[string]int, len(dates))
	for i, d := range dates {
		dateIdx[d] = i
	}

	data := make(map[string][]int, len(categories))
	for _, cat := range categories {
		data[cat] = make([]int, len(dates))
	}
	for _, row := range rows {
		if cells, ok := data[row.Category]; ok {
			cells[dateIdx[row.Date]] = row.Count
		}
	}

	g := Grid{Labels: dates, Datasets: []Dataset{}}
	for _, cat := range categories {
		g.Datasets = append(g.Datasets, Dataset{Label: cat, Data: data[cat]})
	}
	return g
}

// PivotScores pivots (date, company, score) rows into a FloatGrid with
// rounded scores and null for dates a company has no row on.
func PivotScores(rows []warehouse.DateCompanyScore) FloatGrid {
	dates := make([]string, 0)
	seenDate := make(map[string]bool)
	for _, row := range rows {
		if !seenDate[row.Date] {
			seenDate[row.Date] = true
			dates = append(dates, row.Date)
		}
	}
	sort.Strings(dates)

	var companies []string
	cells := make(map[string]map[string]float64)
	for _, row := range rows {
		if _, ok := cells[row.Company]; !ok {
			cells[row.Company] = make(map[string]float64)
			companies = append(companies, row.Company)
		}
		cells[row.Company][row.Date] = Round2(row.Score)
	}

	g := FloatGrid{Labels: dates, Datasets: []FloatDataset{}}
	for _, company := range companies {
		data := make([]*float64, len(dates))
		for i, d := range dates {
			if v, ok := cells[company][d]; ok {
				score := v
				data[i] = &score
			}
		}
		g.Datasets = append(g.Datasets, FloatDataset{Label: company, Data: data})
	}
	return g
}

// SentimentBuckets pivots (label, sentiment, count) rows into a Grid with
// the fixed Positive/Neutral/Negative dataset order. Rows whose label is
// not in labels are dropped.
func SentimentBuckets(labels []string, rows []warehouse.GroupedCount) Grid {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}

	positive := make([]int, len(labels))
	neutral := make([]int, len(labels))
	negative := make([]int, len(labels))

	for _, row := range rows {
		i, ok := idx[row.Label]
		if !ok {
			continue
		}
		switch row.Bucket {
		case "positive":
			positive[i] = row.Count
		case "neutral":
			neutral[i] = row.Count
		case "negative":
			negative[i] = row.Count
		}
	}

	return Grid{
		Labels: labels,
		Datasets: []Dataset{
			{Label: "Positive", Data: positive},
			{Label: "Neutral", Data: neutral},
			{Label: "Negative", Data: negative},
		},
	}
}

// EmptyBuckets returns an all-zero sentiment grid over labels, for
// endpoints whose per-bucket rollups are not in the warehouse yet.
func EmptyBuckets(labels []string) Grid {
	return SentimentBuckets(labels, nil)
}

// GroupedLabels returns the sorted distinct labels of rows, capped at max.
// The result is never nil so downstream grids marshal labels as [].
func GroupedLabels(rows []warehouse.GroupedCount, max int) []string {
	labels := []string{}
	seen := make(map[string]bool)
	for _, row := range rows {
		if !seen[row.Label] {
			seen[row.Label] = true
			labels = append(labels, row.Label)
		}
	}
	sort.Strings(labels)
	if max > 0 && len(labels) > max {
		labels = labels[:max]
	}
	return labels
}

// Capitalize upcases the first rune and lowercases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func distinctDates(rows []warehouse.DateCategoryCount) []string {
	dates := []string{}
	seen := make(map[string]bool)
	for _, row := range rows {
		if !seen[row.Date] {
			seen[row.Date] = true
			dates = append(dates, row.Date)
		}
	}
	sort.Strings(dates)
	return dates
}
