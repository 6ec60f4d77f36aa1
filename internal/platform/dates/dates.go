// Package dates centralizes game-day date handling. The college basketball
// calendar runs on US Eastern time, so "today" and "future" are always
// answered against America/New_York regardless of server locale.
package dates

import (
	"time"
)

const (
	// LayoutCompact is the scoreboard feed's date format.
	LayoutCompact = "20060102"
	// LayoutDashed is the ratings feed's date format.
	LayoutDashed = "2006-01-02"
)

var eastern = mustLoadEastern()

func mustLoadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic("dates: load America/New_York: " + err.Error())
	}
	return loc
}

// TodayEastern returns the current Eastern calendar date in compact form.
func TodayEastern(now time.Time) string {
	return now.In(eastern).Format(LayoutCompact)
}

// ToDashed converts a compact YYYYMMDD date to YYYY-MM-DD. Anything else,
// including an already dashed date, passes through unchanged.
func ToDashed(d string) string {
	if len(d) != 8 {
		return d
	}
	for _, r := range d {
		if r < '0' || r > '9' {
			return d
		}
	}
	return d[:4] + "-" + d[4:6] + "-" + d[6:8]
}

// IsFutureEastern reports whether the compact date lies strictly after
// today's Eastern date. Unparseable input is treated as not future so the
// caller falls back to the normal fetch path.
func IsFutureEastern(dateCompact string, now time.Time) bool {
	d, err := time.ParseInLocation(LayoutCompact, dateCompact, eastern)
	if err != nil {
		return false
	}
	return d.Format(LayoutCompact) > TodayEastern(now)
}

// TTLFor picks the cache lifetime for a payload keyed by game date. Past
// dates never change upstream, so they get the long TTL; today and future
// dates stay fresh on the short one.
func TTLFor(dateCompact string, now time.Time, todayTTL, pastTTL time.Duration) time.Duration {
	d := stripDashes(dateCompact)
	if len(d) == 8 && d < TodayEastern(now) {
		return pastTTL
	}
	return todayTTL
}

func stripDashes(d string) string {
	if len(d) == 10 && d[4] == '-' && d[7] == '-' {
		return d[:4] + d[5:7] + d[8:]
	}
	return d
}
