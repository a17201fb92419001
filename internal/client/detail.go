// ABOUTME: Tagged decoding of the backend's polymorphic "detail" error field
// ABOUTME: Distinguishes plain text, validation issue lists and {msg} objects

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type detailKind int

const (
	detailNone   detailKind = iota // absent, null, "", false or 0
	detailText                     // non-empty string
	detailIssues                   // non-empty array of validation issues
	detailObject                   // object carrying a non-empty msg
	detailOther                    // present but unusable
)

// errorDetail holds exactly one decoded shape of "detail"
type errorDetail struct {
	kind   detailKind
	text   string
	issues []validationIssue
}

// validationIssue is one entry of a validation error list
type validationIssue struct {
	Loc  []json.RawMessage `json:"loc"`
	Msg  string            `json:"msg"`
	Type string            `json:"type"`
}

// field returns the last element of the location path, or placeholder
func (v validationIssue) field(placeholder string) string {
	if len(v.Loc) == 0 {
		return placeholder
	}
	last := v.Loc[len(v.Loc)-1]
	var s string
	if err := json.Unmarshal(last, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(last))
}

// UnmarshalJSON never fails on valid JSON; unknown shapes become detailOther
func (d *errorDetail) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*d = errorDetail{}
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case 'n', 'f':
		d.kind = detailNone
	case 't':
		d.kind = detailOther
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode detail text: %w", err)
		}
		if s != "" {
			d.kind = detailText
			d.text = s
		}
	case '[':
		d.decodeIssues(data)
	case '{':
		var obj struct {
			Msg json.RawMessage `json:"msg"`
		}
		d.kind = detailOther
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		var msg string
		if err := json.Unmarshal(obj.Msg, &msg); err == nil && msg != "" {
			d.kind = detailObject
			d.text = msg
		}
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err == nil && n == 0 {
			d.kind = detailNone
		} else {
			d.kind = detailOther
		}
	}
	return nil
}

func (d *errorDetail) decodeIssues(data []byte) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) == 0 {
		d.kind = detailOther
		return
	}
	d.kind = detailIssues
	d.issues = make([]validationIssue, 0, len(raw))
	for _, item := range raw {
		var issue validationIssue
		if err := json.Unmarshal(item, &issue); err != nil {
			// Bare strings or numbers in the list: keep their text as the message
			var s string
			if json.Unmarshal(item, &s) == nil {
				issue.Msg = s
			} else {
				issue.Msg = string(item)
			}
		}
		d.issues = append(d.issues, issue)
	}
}
