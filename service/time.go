package service

import "time"

// Timestamps cross the wire RFC3339 in UTC so clients can render
// countdowns without guessing the zone.
func formatUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatUTCPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatUTC(*t)
	return &s
}
