package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// InvalidDate is the label produced for a missing or unparseable timestamp.
const InvalidDate = "Invalid Date"

// monthLayout renders "January 2024".
const monthLayout = "January 2006"

// Layouts carrying an explicit zone.
var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// Layouts without a zone; read as wall time in the display location.
var wallLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Date-only layouts; read as UTC midnight.
var dateLayouts = []string{
	time.DateOnly,
	"2006-01",
	"2006",
}

// maxEpochMillis is the largest magnitude a valid epoch value may have
// (100,000,000 days either side of 1970).
const maxEpochMillis = 8.64e15

// Timestamp keeps the creation time exactly as received so that a
// malformed value can still be bucketed instead of rejected.
type Timestamp struct {
	raw     string
	numeric bool
}

// NewTimestamp wraps an ISO-8601 style string.
func NewTimestamp(raw string) Timestamp {
	return Timestamp{raw: raw}
}

// NewEpochTimestamp wraps a Unix time in milliseconds.
func NewEpochTimestamp(ms int64) Timestamp {
	return Timestamp{raw: strconv.FormatInt(ms, 10), numeric: true}
}

// Raw returns the received text.
func (t Timestamp) Raw() string { return t.raw }

// IsZero reports whether no timestamp was received.
func (t Timestamp) IsZero() bool { return t.raw == "" }

// UnmarshalJSON accepts a string, a number of epoch milliseconds, or null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*t = Timestamp{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
		*t = Timestamp{raw: s}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			// Objects, arrays and bools are kept as opaque text so the record
			// still lands in the invalid-date bucket.
			*t = Timestamp{raw: string(data)}
			return nil
		}
		*t = Timestamp{raw: n.String(), numeric: true}
	}
	return nil
}

// MarshalJSON writes the timestamp back in the shape it was received.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	switch {
	case t.raw == "":
		return []byte("null"), nil
	case t.numeric:
		return []byte(t.raw), nil
	default:
		return json.Marshal(t.raw)
	}
}

// Time parses the timestamp and expresses it in loc (UTC when nil).
func (t Timestamp) Time(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	raw := strings.TrimSpace(t.raw)
	if raw == "" {
		return time.Time{}, false
	}

	if t.numeric {
		ms, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).In(loc), true
	}

	for _, layout := range zonedLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.In(loc), true
		}
	}
	for _, layout := range wallLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, true
		}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.In(loc), true
		}
	}
	return time.Time{}, false
}

// MonthLabel formats the timestamp as "January 2024", or InvalidDate.
func (t Timestamp) MonthLabel(loc *time.Location) string {
	ts, ok := t.Time(loc)
	if !ok {
		return InvalidDate
	}
	return ts.Format(monthLayout)
}

// DateLabel formats the timestamp as a US short date ("1/15/2024") without
// a time component, or InvalidDate.
func (t Timestamp) DateLabel(loc *time.Location) string {
	ts, ok := t.Time(loc)
	if !ok {
		return InvalidDate
	}
	return fmt.Sprintf("%d/%d/%d", int(ts.Month()), ts.Day(), ts.Year())
}

// MonthLabel is the month bucket the response falls into.
func (r Response) MonthLabel(loc *time.Location) string {
	return r.CreatedAt.MonthLabel(loc)
}

// DateLabel is the short creation date of the response.
func (r Response) DateLabel(loc *time.Location) string {
	return r.CreatedAt.DateLabel(loc)
}
