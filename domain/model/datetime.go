package model

import (
	"fmt"
	"time"
)

// DateTimeFormat is the layout the platform uses on the wire: UTC, no offset.
const DateTimeFormat = "2006-01-02T15:04:05.999999999"

var (
	// layouts carrying their own offset
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02T15:04Z07:00",
	}
	// naive layouts, read as UTC
	naiveLayouts = []string{
		DateTimeFormat,
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// ParseDateTime reads an ISO 8601 timestamp. Timestamps without an offset are UTC.
func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse %q as ISO 8601 date-time", s)
}

func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeFormat)
}
