package model

import (
	"encoding/json"
	"strings"
	"time"
)

// timeLayouts are the timestamp shapes accepted from the backend. Parsing
// accepts fractional seconds after the seconds field even when the layout
// omits them. Layouts without a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
}

// ParseTime parses a backend timestamp. Unrecognized input yields the zero
// time.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// decodeTime reads a JSON timestamp. Anything that is not a parsable
// string, including null, yields the zero time.
func decodeTime(raw json.RawMessage) time.Time {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return time.Time{}
	}
	return ParseTime(s)
}

// UnmarshalJSON decodes a todo, tolerating any timestamp format.
func (t *Todo) UnmarshalJSON(data []byte) error {
	type plain Todo
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"createdAt"`
		UpdatedAt json.RawMessage `json:"updatedAt"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t.CreatedAt = decodeTime(aux.CreatedAt)
	t.UpdatedAt = nil
	if ts := decodeTime(aux.UpdatedAt); !ts.IsZero() {
		t.UpdatedAt = &ts
	}
	return nil
}

// UnmarshalJSON decodes a user, tolerating any timestamp format.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"createdAt"`
	}{plain: (*plain)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.CreatedAt = decodeTime(aux.CreatedAt)
	return nil
}
