package warehouse

import (
	"context"
	"log"
	"strings"

	"github.com/fieldpulse/fieldpulse/internal/config"
)

// CompanySet is the fixed set of company codes the comparison endpoints
// filter to: the home company plus its tracked competitors. It is resolved
// once at process start and passed to the handlers that need it.
type CompanySet struct {
	Home        int            `json:"home_code"`
	Competitors map[string]int `json:"competitors"`

	order []string
}

// Codes returns the home code followed by the competitor codes in their
// configured order, for IN (?, ?, ?, ?) binds.
func (s CompanySet) Codes() []any {
	codes := make([]any, 0, 1+len(s.order))
	codes = append(codes, s.Home)
	for _, key := range s.order {
		codes = append(codes, s.Competitors[key])
	}
	return codes
}

// ResolveCompanies looks up competitor company codes by name in
// dim_companies, falling back to the configured numeric defaults for any
// competitor the lookup misses. Lookup failure (missing table, unreadable
// warehouse) falls back wholesale and is logged, not fatal: the dashboard
// can still serve everything except accurate company comparisons.
func ResolveCompanies(ctx context.Context, w *Warehouse, cfg config.CompanyConfig) CompanySet {
	set := CompanySet{
		Home:        cfg.HomeCode,
		Competitors: make(map[string]int, len(cfg.Competitors)),
	}
	for _, spec := range cfg.Competitors {
		set.order = append(set.order, spec.Key)
	}

	rows, err := lookupCompanies(ctx, w, cfg.Competitors)
	if err != nil {
		log.Printf("warehouse: competitor lookup failed, using fallback codes: %v", err)
	}

	for _, row := range rows {
		name := strings.ToUpper(row.CompanyName)
		for _, spec := range cfg.Competitors {
			if strings.Contains(name, strings.ToUpper(spec.Key)) {
				set.Competitors[spec.Key] = row.CompanyCode
				break
			}
		}
	}

	for _, spec := range cfg.Competitors {
		if _, ok := set.Competitors[spec.Key]; !ok {
			set.Competitors[spec.Key] = spec.FallbackCode
		}
	}

	return set
}

// companyRow is a bare (code, name) pair from dim_companies.
type companyRow struct {
	CompanyCode int
	CompanyName string
}

func lookupCompanies(ctx context.Context, w *Warehouse, specs []config.CompetitorSpec) ([]companyRow, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	conn, err := w.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	names := make([]any, 0, len(specs))
	codes := make([]any, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Match)
		codes = append(codes, spec.FallbackCode)
	}

	query := `
		SELECT company_code, company_name
		FROM dim_companies
		WHERE company_name IN (` + placeholders(len(names)) + `)
		OR company_code IN (` + placeholders(len(codes)) + `)`

	args := append(names, codes...)
	rows, err := conn.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []companyRow
	for rows.Next() {
		var row companyRow
		if err := rows.Scan(&row.CompanyCode, &row.CompanyName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// placeholders returns n comma-separated "?" binds.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
