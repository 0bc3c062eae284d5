// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Free-text answer keys as they appear on the wire.
const (
	WentWell      = "wentWell"
	DidntGoWell   = "didntGoWell"
	Challenges    = "challenges"
	Lessons       = "lessons"
	ShoutOuts     = "shoutOuts"
	StartDoing    = "startDoing"
	StopDoing     = "stopDoing"
	ContinueDoing = "continueDoing"
	FollowUp      = "followUp"
)

// Rating category keys as they appear on the wire.
const (
	TeamCollab      = "teamCollab"
	CrossTeamCollab = "crossTeamCollab"
	WorkLifeBalance = "workLifeBalance"
	Productivity    = "productivity"
	OrgInput        = "orgInput"
)

// RatingPlaceholder is shown for a rating category the respondent skipped.
const RatingPlaceholder = "-"

// FreeTextFields lists the long-form answer keys in survey order.
var FreeTextFields = []string{
	WentWell, DidntGoWell, Challenges, Lessons, ShoutOuts,
	StartDoing, StopDoing, ContinueDoing, FollowUp,
}

// RatingFields lists the rating category keys in survey order.
var RatingFields = []string{
	TeamCollab, CrossTeamCollab, WorkLifeBalance, Productivity, OrgInput,
}

// Response is one feedback survey submission. It is immutable once built:
// the answer maps are private copies and only exposed through accessors.
type Response struct {
	ID         string
	FullName   string
	Department string
	CreatedAt  Timestamp

	freeText map[string]string
	ratings  map[string]string
}

// NewResponse builds a Response, copying the answer maps. Empty values are
// treated as absent.
func NewResponse(id, fullName, department string, createdAt Timestamp, freeText, ratings map[string]string) Response {
	return Response{
		ID:         id,
		FullName:   fullName,
		Department: department,
		CreatedAt:  createdAt,
		freeText:   compact(freeText),
		ratings:    compact(ratings),
	}
}

// Text returns the free-text answer for key, or "" when absent.
func (r Response) Text(key string) string {
	return r.freeText[key]
}

// HasText reports whether the respondent answered key.
func (r Response) HasText(key string) bool {
	_, ok := r.freeText[key]
	return ok
}

// Rating returns the rating for key, or RatingPlaceholder when absent.
func (r Response) Rating(key string) string {
	if v, ok := r.ratings[key]; ok {
		return v
	}
	return RatingPlaceholder
}

// RatingValue returns the rating for key and whether it was given.
func (r Response) RatingValue(key string) (string, bool) {
	v, ok := r.ratings[key]
	return v, ok
}

// UnmarshalJSON accepts the survey wire shape. Ratings may be given at the
// top level or inside a nested "ratings" object; nested values win.
func (r *Response) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	id, ok := scalarText(fields["id"])
	if !ok {
		id, _ = scalarText(fields["_id"])
	}
	fullName, _ := scalarText(fields["fullName"])
	department, _ := scalarText(fields["department"])

	var createdAt Timestamp
	if raw, ok := fields["createdAt"]; ok {
		if err := json.Unmarshal(raw, &createdAt); err != nil {
			return err
		}
	}

	freeText := make(map[string]string, len(FreeTextFields))
	for _, key := range FreeTextFields {
		if v, ok := scalarText(fields[key]); ok {
			freeText[key] = v
		}
	}

	ratings := make(map[string]string, len(RatingFields))
	for _, key := range RatingFields {
		if v, ok := scalarText(fields[key]); ok {
			ratings[key] = v
		}
	}
	if nested, ok := fields["ratings"]; ok {
		var inner map[string]json.RawMessage
		// A non-object "ratings" value carries no categories.
		if err := json.Unmarshal(nested, &inner); err == nil {
			for _, key := range RatingFields {
				if v, ok := scalarText(inner[key]); ok {
					ratings[key] = v
				}
			}
		}
	}

	*r = NewResponse(id, fullName, department, createdAt, freeText, ratings)
	return nil
}

// scalarText renders a JSON string, number or bool as text. Null, empty
// strings, objects and arrays report false.
func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return "", false
		}
		return strconv.FormatBool(b), true
	case 'n', '{', '[':
		return "", false
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", false
		}
		return n.String(), true
	}
}

func compact(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
