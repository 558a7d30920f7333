// Package clock provides the wall clock of the operating time zone.
package clock

import "time"

// Operating reports time in the deployment's operating time zone. "Today"
// boundaries (default dispatch day, assembly opening) are taken from it.
type Operating struct {
	loc *time.Location
}

func NewOperating(loc *time.Location) Operating {
	if loc == nil {
		loc = time.UTC
	}
	return Operating{loc: loc}
}

func (c Operating) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c Operating) Location() *time.Location {
	return c.loc
}

// Fixed always returns the same instant. It is used by tests and by replays.
type Fixed struct {
	At  time.Time
	Loc *time.Location
}

func (c Fixed) Now() time.Time {
	return c.At
}

func (c Fixed) Location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}
