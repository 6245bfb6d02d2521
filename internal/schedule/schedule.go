// Package schedule decides whether a reminder is due at a given moment.
package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/pathakanu/remindmail/internal/model"
)

// SendWindow is how far past the top of the target hour a reminder stays sendable.
const SendWindow = 15 * time.Minute

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock in Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// DayMatches reports whether any of days names the weekday of now.
// Unrecognised names are ignored.
func DayMatches(days []string, now time.Time) bool {
	today := now.Weekday()
	for _, name := range days {
		if model.ParseWeekday(name).Matches(today) {
			return true
		}
	}
	return false
}

// InSendWindow reports whether now falls in the window opened by target ("HH:MM").
// Only the hour of target is significant; the window runs from minute 0 to minute 15.
func InSendWindow(target string, now time.Time) bool {
	hour, _, ok := parseClockTime(target)
	if !ok {
		return false
	}
	return now.Hour() == hour && now.Minute() <= int(SendWindow/time.Minute)
}

// SentToday reports whether lastSent falls on the same calendar day as now, in now's location.
func SentToday(lastSent *time.Time, now time.Time) bool {
	if lastSent == nil {
		return false
	}
	ly, lm, ld := lastSent.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	return ly == ny && lm == nm && ld == nd
}

// IsDue combines the three gates.
func IsDue(r model.Reminder, now time.Time) bool {
	return DayMatches(r.Days, now) && InSendWindow(r.Time, now) && !SentToday(r.LastSent, now)
}

func parseClockTime(value string) (hour, minute int, ok bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
