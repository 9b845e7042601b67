package logging

import (
	"time"

	"golang.org/x/time/rate"
)

// Throttle rate-limits a recurring warning so a misbehaving input stream
// cannot flood the log. The first few occurrences are always logged.
type Throttle struct {
	msg        string
	sometimes  rate.Sometimes
	suppressed int
}

// NewThrottle returns a throttle that logs the first burst occurrences and at
// most one more per interval.
func NewThrottle(msg string, burst int, interval time.Duration) *Throttle {
	return &Throttle{
		msg:       msg,
		sometimes: rate.Sometimes{First: burst, Interval: interval},
	}
}

// Warn logs the throttled message with keyvals, or counts it as suppressed.
// It reports whether the message was written.
func (t *Throttle) Warn(keyvals ...interface{}) bool {
	logged := false
	t.sometimes.Do(func() {
		if t.suppressed > 0 {
			keyvals = append(keyvals, "suppressed", t.suppressed)
			t.suppressed = 0
		}
		Warn(t.msg, keyvals...)
		logged = true
	})
	if !logged {
		t.suppressed++
	}
	return logged
}

// Suppressed returns how many messages were dropped since the last write.
func (t *Throttle) Suppressed() int {
	return t.suppressed
}
