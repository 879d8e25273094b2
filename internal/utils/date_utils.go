package utils

import (
	"time"
)

// DayLayout is the storage format for calendar days (e.g. completed_actions.action_day).
const DayLayout = "2006-01-02"

// DayClock answers "what calendar day is it" in the engine's reference timezone.
// The now function is injectable so day boundaries can be tested.
type DayClock struct {
	loc *time.Location
	now func() time.Time
}

func NewDayClock(loc *time.Location) *DayClock {
	if loc == nil {
		loc = time.UTC
	}
	return &DayClock{loc: loc, now: time.Now}
}

// NewFixedDayClock returns a clock whose current instant is produced by now.
func NewFixedDayClock(loc *time.Location, now func() time.Time) *DayClock {
	clock := NewDayClock(loc)
	if now != nil {
		clock.now = now
	}
	return clock
}

func (c *DayClock) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *DayClock) Location() *time.Location {
	return c.loc
}

// Today is the current calendar day key.
func (c *DayClock) Today() string {
	return c.DayOf(c.now())
}

// DayOf converts an instant to the calendar day key it falls on in the engine zone.
func (c *DayClock) DayOf(t time.Time) string {
	return t.In(c.loc).Format(DayLayout)
}

// DaysBetween returns the number of whole calendar days from earlier to later.
// Invalid keys report -1.
func DaysBetween(earlier, later string) int {
	from, err := time.Parse(DayLayout, earlier)
	if err != nil {
		return -1
	}
	to, err := time.Parse(DayLayout, later)
	if err != nil {
		return -1
	}
	return int(to.Sub(from).Hours() / 24)
}
