// Package facets derives the distinct filter choices offered for a record set.
package facets

import (
	"sort"
	"time"

	"github.com/okian/feedback/internal/domain/model"
)

// Facets holds the department and month choices for a record set.
type Facets struct {
	Departments []string `json:"departments"`
	Months      []string `json:"months"`
}

// Derive computes both facet lists.
func Derive(records []model.Response, loc *time.Location) Facets {
	return Facets{
		Departments: Departments(records),
		Months:      Months(records, loc),
	}
}

// Selectable returns a copy of f without the blank department. A blank
// department criterion means "all", so offering it as a choice would not
// narrow anything.
func (f Facets) Selectable() Facets {
	depts := make([]string, 0, len(f.Departments))
	for _, d := range f.Departments {
		if d != "" {
			depts = append(depts, d)
		}
	}
	return Facets{Departments: depts, Months: f.Months}
}

// Departments returns each distinct department value once. Values appear in
// first-seen order, but callers must treat the result as a set.
func Departments(records []model.Response) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0)
	for i := range records {
		d := records[i].Department
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Months returns the distinct "Month Year" labels sorted as plain strings.
// The ordering is lexicographic, not chronological: "April 2024" sorts before
// "January 2023". Records with a bad timestamp contribute model.InvalidDate.
func Months(records []model.Response, loc *time.Location) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0)
	for i := range records {
		label := records[i].MonthLabel(loc)
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
