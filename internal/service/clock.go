package service

import (
	"time"

	"taskflow/internal/stats"
)

// Clock decides what "now" and "today" are for the services.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

// Today is the current date in the configured location, as YYYY-MM-DD.
func (c Clock) Today() string {
	return stats.Today(c.now(), c.Location)
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c Clock) todayTime() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return c.now().In(loc)
}
