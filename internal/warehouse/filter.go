package warehouse

import (
	"strconv"
	"strings"
	"time"
)

// sqlTimeLayout is the text timestamp format the warehouse stores in
// created_at, used for computed window bounds so SQLite's text comparison
// orders correctly.
const sqlTimeLayout = "2006-01-02 15:04:05"

// DateRange bounds warehouse queries by created_at. A zero DateRange applies
// no bound.
type DateRange struct {
	Start string
	End   string
}

// Bounded reports whether the range constrains queries at all.
func (r DateRange) Bounded() bool {
	return r.Start != "" || r.End != ""
}

// ParseDateFilter maps a date-filter token to a concrete range, relative to
// now. Rules, in order:
//
//  1. "all"            → no bound.
//  2. all-digit N      → trailing window of N days ending now.
//  3. token with a "-" → custom range "start,end", both halves passed to SQL
//     verbatim.
//  4. anything else    → 30-day trailing window.
//
// Rule 3 also catches a lone ISO date ("2024-01-01") with no comma; the end
// bound then stays empty, so downstream queries match nothing. The upstream
// dashboard never sends that form, so the quirk is kept rather than guessed
// at.
func ParseDateFilter(token string, now time.Time) DateRange {
	switch {
	case token == "all":
		return DateRange{}
	case isDigits(token):
		days, _ := strconv.Atoi(token)
		return DateRange{
			Start: now.AddDate(0, 0, -days).Format(sqlTimeLayout),
			End:   now.Format(sqlTimeLayout),
		}
	case strings.Contains(token, "-"):
		parts := strings.SplitN(token, ",", 2)
		if len(parts) == 2 {
			return DateRange{Start: parts[0], End: parts[1]}
		}
		return DateRange{Start: parts[0]}
	default:
		return DateRange{
			Start: now.AddDate(0, 0, -30).Format(sqlTimeLayout),
			End:   now.Format(sqlTimeLayout),
		}
	}
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
