package timeutil

import "time"

// Overlaps reports whether the half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back windows (aEnd == bStart) do not
// overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// End returns the end of a window starting at start with the given duration
// in minutes.
func End(start time.Time, durationMinutes int) time.Time {
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

// ValidWindow reports whether [start, end) is a well-formed, non-empty window.
func ValidWindow(start, end time.Time) bool {
	return end.After(start)
}
