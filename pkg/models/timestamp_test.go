package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  time.Time
		expectRaw string
	}{
		{name: "RFC3339", input: "2026-10-14T08:00:00Z", expected: time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)},
		{name: "With offset", input: "2026-10-14T10:00:00+02:00", expected: time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)},
		{name: "Zone-less", input: "2026-10-14T08:00:00", expected: time.Date(2026, 10, 14, 8, 0, 0, 0, time.Local)},
		{name: "Zone-less fraction", input: "2026-10-14T08:00:00.5", expected: time.Date(2026, 10, 14, 8, 0, 0, 500000000, time.Local)},
		{name: "Space separated", input: " 2026-10-14 08:00:00 ", expected: time.Date(2026, 10, 14, 8, 0, 0, 0, time.Local)},
		{name: "Unparseable", input: "14.10.2026", expectRaw: "14.10.2026"},
		{name: "Empty", input: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := ParseTimestamp(tc.input)

			if tc.expected.IsZero() {
				if ts.Valid() {
					t.Errorf("Expected invalid timestamp, got %v", ts.Time)
				}
				if ts.Raw != tc.expectRaw {
					t.Errorf("Expected raw %q, got %q", tc.expectRaw, ts.Raw)
				}
				return
			}
			if !ts.Equal(tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, ts.Time)
			}
		})
	}
}

func TestTimestamp_UnmarshalNonString(t *testing.T) {
	var a Alert
	if err := json.Unmarshal([]byte(`{"AlertType":"X","AlertTimestamp":1760428800}`), &a); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if a.AlertTimestamp.Valid() || a.AlertTimestamp.Raw != "1760428800" {
		t.Errorf("Expected raw numeric timestamp, got %+v", a.AlertTimestamp)
	}

	if err := json.Unmarshal([]byte(`{"AlertTimestamp":null}`), &a); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if a.AlertTimestamp.Valid() || a.AlertTimestamp.Raw != "" {
		t.Errorf("Expected empty timestamp for null, got %+v", a.AlertTimestamp)
	}
}

func TestTimestamp_Marshal(t *testing.T) {
	b, err := json.Marshal(NewTimestamp(time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(b) != `"2026-10-14T08:00:00Z"` {
		t.Errorf("Unexpected JSON %s", b)
	}

	b, _ = json.Marshal(ParseTimestamp("soon"))
	if string(b) != `"soon"` {
		t.Errorf("Expected raw text, got %s", b)
	}
}
