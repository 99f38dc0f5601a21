package utility

import "time"

// UnixMilli returns t as milliseconds since the epoch.
func UnixMilli(t time.Time) int64 {
	return t.Round(time.Millisecond).UnixMilli()
}

// CurrentTimeInMilli returns the current time in milliseconds.
func CurrentTimeInMilli() int64 {
	return UnixMilli(time.Now())
}
