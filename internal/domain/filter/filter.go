// Package filter applies the dashboard's compound search criteria to a
// record set.
package filter

import (
	"strings"
	"time"

	"github.com/okian/feedback/internal/domain/model"
)

// All selects every department or month.
const All = "all"

// Criteria is the current filter selection.
type Criteria struct {
	SearchText string `json:"q"`
	Department string `json:"department"`
	Month      string `json:"month"`
}

// Default returns criteria that match every record.
func Default() Criteria {
	return Criteria{Department: All, Month: All}
}

// Normalize maps blank department and month selections to All.
func (c Criteria) Normalize() Criteria {
	if c.Department == "" {
		c.Department = All
	}
	if c.Month == "" {
		c.Month = All
	}
	return c
}

// IsDefault reports whether c matches every record.
func (c Criteria) IsDefault() bool {
	n := c.Normalize()
	return n.SearchText == "" && n.Department == All && n.Month == All
}

// Match reports whether r satisfies every predicate in c.
func Match(r *model.Response, c Criteria, loc *time.Location) bool {
	c = c.Normalize()
	if c.SearchText != "" {
		if r.FullName == "" || !strings.Contains(strings.ToLower(r.FullName), strings.ToLower(c.SearchText)) {
			return false
		}
	}
	if c.Department != All && r.Department != c.Department {
		return false
	}
	if c.Month != All && r.MonthLabel(loc) != c.Month {
		return false
	}
	return true
}

// Apply returns the records matching c in their original order. The input
// slice is never modified.
func Apply(records []model.Response, c Criteria, loc *time.Location) []model.Response {
	out := make([]model.Response, 0, len(records))
	for i := range records {
		if Match(&records[i], c, loc) {
			out = append(out, records[i])
		}
	}
	return out
}

// Result is the outcome of applying criteria to a record set.
type Result struct {
	// Total is the size of the whole set, before filtering.
	Total int
	// Responses holds the matching records in source order.
	Responses []model.Response
}
