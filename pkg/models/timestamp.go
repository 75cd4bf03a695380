package models

import (
	"encoding/json"
	"strings"
	"time"
)

// timestampLayouts are tried in order. Layouts without a zone are read in
// local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is an alert time as sent by the API. A value matching none of
// the known layouts keeps its text in Raw and leaves Time zero, so one odd
// alert never fails the whole response.
type Timestamp struct {
	time.Time
	Raw string
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp reads s with the first layout that fits
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{Time: t}
		}
	}
	return Timestamp{Raw: s}
}

// Valid reports whether the timestamp was parsed
func (t Timestamp) Valid() bool {
	return !t.Time.IsZero()
}

// UnmarshalJSON accepts any JSON value. Strings are parsed, everything else
// is kept as raw text.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*t = Timestamp{}
		if raw := string(b); raw != "null" {
			t.Raw = raw
		}
		return nil
	}
	*t = ParseTimestamp(s)
	return nil
}

// MarshalJSON writes RFC 3339 for parsed values and the raw text otherwise
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return json.Marshal(t.Raw)
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
