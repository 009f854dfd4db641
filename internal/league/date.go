package league

import (
	"time"
)

const (
	// DayLayout is the upstream date format and the format of "today" comparisons.
	DayLayout = "2006-01-02"

	// dayParseLayout and startParseLayout also accept single-digit month, day,
	// hour and minute.
	dayParseLayout   = "2006-1-2"
	startParseLayout = "2006-1-2 15:4"

	// DefaultTime is used when a game carries no usable kick-off time.
	DefaultTime = "00:00"
)

// IsSentinel reports whether v is one of the upstream "no value" markers.
func IsSentinel(v string) bool {
	switch v {
	case "-", "", Unknown, "?":
		return true
	}
	return false
}

// EffectiveDate returns NewDate unless it is a sentinel, otherwise Date.
func (g Game) EffectiveDate() string {
	if !IsSentinel(g.NewDate) {
		return g.NewDate
	}
	return g.Date
}

// EffectiveTime returns Time unless it is a sentinel, otherwise DefaultTime.
func (g Game) EffectiveTime() string {
	if !IsSentinel(g.Time) {
		return g.Time
	}
	return DefaultTime
}

// ParseDay parses an upstream YYYY-MM-DD date at midnight in loc.
// Sentinels and malformed values report false.
func ParseDay(v string, loc *time.Location) (time.Time, bool) {
	if IsSentinel(v) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dayParseLayout, v, locOrLocal(loc))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseStart combines an upstream date and HH:MM time into an instant in loc.
func ParseStart(date, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(startParseLayout, date+" "+clock, locOrLocal(loc))
}

// Completed reports whether the game's effective date lies strictly before now.
// Games without a parseable effective date are never completed.
func (g Game) Completed(now time.Time, loc *time.Location) bool {
	day, ok := ParseDay(g.EffectiveDate(), loc)
	if !ok {
		return false
	}
	return day.Before(now)
}

func locOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
