package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Layouts accepted for createdAt, tried in order. Values without a zone are
// read in local time, except date-only values, which are UTC.
var timestampLayouts = []struct {
	layout string
	loc    *time.Location
}{
	{time.RFC3339Nano, time.UTC},
	{"2006-01-02T15:04:05.999999999", time.Local},
	{"2006-01-02T15:04", time.Local},
	{time.DateOnly, time.UTC},
}

// parseTimestamp reads a createdAt value as a string in one of
// timestampLayouts or as milliseconds since the epoch. Anything else,
// including null and "", is the zero time.
func parseTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(int64(ms)).UTC()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return time.Time{}
	}
	for _, l := range timestampLayouts {
		if t, err := time.ParseInLocation(l.layout, s, l.loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// UnmarshalJSON decodes a service leniently: a createdAt that cannot be
// read becomes the zero time instead of rejecting the record.
func (s *Service) UnmarshalJSON(b []byte) error {
	type plain Service
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"createdAt"`
	}{plain: (*plain)(s)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	s.CreatedAt = parseTimestamp(aux.CreatedAt)
	return nil
}
