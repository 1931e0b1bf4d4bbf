package utils

import "time"

// NormalizeToLocation drops whatever zone t carries and reinterprets the wall
// clock time in loc. Source exports are naive local timestamps, so the zone
// attached by time.Parse is meaningless.
func NormalizeToLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
