package models

import (
	"fmt"
	"strings"
)

// TimeRange is one of the chart ranges offered by the time-range selector
type TimeRange string

const (
	Range1Hour   TimeRange = "1h"
	Range6Hours  TimeRange = "6h"
	Range24Hours TimeRange = "24h"
	Range7Days   TimeRange = "7d"
)

// DefaultRange is used whenever no valid range was selected
const DefaultRange = Range24Hours

var validRanges = []TimeRange{Range1Hour, Range6Hours, Range24Hours, Range7Days}

// ParseTimeRange returns the range for s or an error listing the valid ones
func ParseTimeRange(s string) (TimeRange, error) {
	for _, r := range validRanges {
		if string(r) == s {
			return r, nil
		}
	}

	valid := make([]string, 0, len(validRanges))
	for _, r := range validRanges {
		valid = append(valid, string(r))
	}
	return "", fmt.Errorf("invalid time range: %s (valid: %s)", s, strings.Join(valid, ", "))
}

// Hours returns the hour count requested from /getHistoricalData.
// Unknown ranges fall back to 24.
func (r TimeRange) Hours() int {
	switch r {
	case Range1Hour:
		return 1
	case Range6Hours:
		return 6
	case Range24Hours:
		return 24
	case Range7Days:
		return 168
	default:
		return 24
	}
}
