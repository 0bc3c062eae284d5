// Package export flattens responses into fixed-column rows for spreadsheet
// output.
package export

import (
	"time"

	"github.com/okian/feedback/internal/domain/model"
)

// Column labels in output order.
const (
	ColName          = "Name"
	ColDepartment    = "Department"
	ColWentWell      = "Went Well"
	ColDidntGoWell   = "Didn't Go Well"
	ColChallenges    = "Challenges"
	ColLessons       = "Lessons"
	ColShoutOuts     = "ShoutOuts"
	ColStartDoing    = "Start Doing"
	ColStopDoing     = "Stop Doing"
	ColContinueDoing = "Continue Doing"
	ColFollowUp      = "Follow Up"
	ColTeamCollab    = "Team Collab"
	ColCrossTeam     = "Cross Team"
	ColWorkLife      = "Work Life"
	ColProductivity  = "Productivity"
	ColOrgInput      = "Org Input"
	ColDate          = "Date"
)

// column binds a label to the function that reads its value.
type column struct {
	label string
	value func(r *model.Response, loc *time.Location) string
}

func text(key string) func(*model.Response, *time.Location) string {
	return func(r *model.Response, _ *time.Location) string { return r.Text(key) }
}

func rating(key string) func(*model.Response, *time.Location) string {
	return func(r *model.Response, _ *time.Location) string { return r.Rating(key) }
}

var columns = []column{
	{ColName, func(r *model.Response, _ *time.Location) string { return r.FullName }},
	{ColDepartment, func(r *model.Response, _ *time.Location) string { return r.Department }},
	{ColWentWell, text(model.WentWell)},
	{ColDidntGoWell, text(model.DidntGoWell)},
	{ColChallenges, text(model.Challenges)},
	{ColLessons, text(model.Lessons)},
	{ColShoutOuts, text(model.ShoutOuts)},
	{ColStartDoing, text(model.StartDoing)},
	{ColStopDoing, text(model.StopDoing)},
	{ColContinueDoing, text(model.ContinueDoing)},
	{ColFollowUp, text(model.FollowUp)},
	{ColTeamCollab, rating(model.TeamCollab)},
	{ColCrossTeam, rating(model.CrossTeamCollab)},
	{ColWorkLife, rating(model.WorkLifeBalance)},
	{ColProductivity, rating(model.Productivity)},
	{ColOrgInput, rating(model.OrgInput)},
	{ColDate, func(r *model.Response, loc *time.Location) string { return r.DateLabel(loc) }},
}

// Cell is one labelled value of a row.
type Cell struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Row is one exported record; every row carries the same labels in the same
// order.
type Row []Cell

// Value returns the cell value for label, or "" when the label is unknown.
func (r Row) Value(label string) string {
	for _, c := range r {
		if c.Label == label {
			return c.Value
		}
	}
	return ""
}

// Values returns the cell values in column order.
func (r Row) Values() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Value
	}
	return out
}

// Columns returns the column labels in output order.
func Columns() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.label
	}
	return out
}

// ToRow flattens a single response.
func ToRow(r *model.Response, loc *time.Location) Row {
	row := make(Row, len(columns))
	for i, c := range columns {
		row[i] = Cell{Label: c.label, Value: c.value(r, loc)}
	}
	return row
}

// ToRows flattens records in input order.
func ToRows(records []model.Response, loc *time.Location) []Row {
	rows := make([]Row, len(records))
	for i := range records {
		rows[i] = ToRow(&records[i], loc)
	}
	return rows
}

// Workbook is an encoded export ready for download.
type Workbook struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}
