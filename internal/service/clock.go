package service

import (
	"fmt"
	"time"
)

const clockLayout = "15:04"

// parseClock parses an "HH:MM" wall-clock value onto the zero date so the
// results are directly comparable.
func parseClock(value string) (time.Time, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", value, err)
	}
	return t, nil
}

// windowsOverlap reports whether [aStart, aEnd) intersects [bStart, bEnd).
func windowsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
