package session

import "time"

// ParseCompletedAt parses a history timestamp, accepting RFC3339 and its
// nanosecond variant. Unparsable values report !ok; callers drop the
// entry rather than failing.
func ParseCompletedAt(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatCompletedAt renders a completion instant the way history entries
// store it.
func FormatCompletedAt(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
