// Package age computes how long ago something changed.
package age

import "time"

// Since returns the time elapsed between then and now and whether then is
// set. Times in the future count as zero.
func Since(then time.Time, now time.Time) (time.Duration, bool) {
	if then.IsZero() {
		return 0, false
	}
	if then.After(now) {
		return 0, true
	}
	return now.Sub(then), true
}

// FromMillis converts a Unix millisecond timestamp. Zero stays the zero time.
func FromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
