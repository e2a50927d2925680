// Package schedule owns the lifetimes of the periodic feed workers: compute
// each worker's next wall-clock trigger, run its body inside a per-worker
// timeout and retry wrapper, and coordinate clean shutdown.
package schedule

import "time"

// amsatMinutes are the minute-of-hour alignment points for the AMSAT update
// worker, per §4.1.
var amsatMinutes = [...]int{2, 17, 32, 47}

// NextAMSATTrigger picks the smallest element of {02,17,32,47} strictly
// greater than now.Minute() in the current hour; if none, 02 of the next
// hour (wrapping 23 -> 00 via time.Date's own normalization). Seconds and
// subseconds are zeroed.
func NextAMSATTrigger(now time.Time) time.Time {
	for _, m := range amsatMinutes {
		if m > now.Minute() {
			return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), m, 0, 0, now.Location())
		}
	}
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+1, amsatMinutes[0], 0, 0, now.Location())
}

// NextImageGCTrigger returns today's 03:00 UTC if now is before it, else
// tomorrow's 03:00 UTC.
func NextImageGCTrigger(now time.Time) time.Time {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, time.UTC)
	if now.Before(today) {
		return today
	}
	return today.AddDate(0, 0, 1)
}

// NextFixedTrigger implements the "others: now + i" rule for LoTW, QO-100,
// and DX-World's periodic cadence.
func NextFixedTrigger(now time.Time, interval time.Duration) time.Time {
	return now.Add(interval)
}
