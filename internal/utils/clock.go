package utils

import (
	"fmt"
	"time"

	"bootcamp-assistant/internal/models"
)

const DefaultTimezone = "Asia/Tehran"

// Clock tells the current time in the camp's configured timezone.
type Clock interface {
	Now() time.Time
}

type zoneClock struct {
	loc *time.Location
}

func NewClock(timezone string) (Clock, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &zoneClock{loc: loc}, nil
}

func (c *zoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock always returns the same instant. Handy in tests and CLI replays.
type FixedClock struct {
	Time time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.Time
}

// Today formats the clock's calendar date as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format(models.DateLayout)
}
