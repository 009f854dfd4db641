package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/dieliga/internal/league"
)

const monthPattern = `(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|september|oct|october|nov|november|dec|december)`

var (
	sameMonthRange  = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	crossMonthRange = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*` + monthPattern + `\s+(\d{1,2})$`)
	wholeMonth      = regexp.MustCompile(`(?i)^` + monthPattern + `$`)
)

// ParseDateRange parses a date range string into start and end times.
//
// Supported formats:
//   - "2026-03-01..2026-03-15" - Explicit dates
//   - "Mar 1-15" or "March 1-15" - Same month, different days
//   - "March 1 - April 15" - Different months
//   - "March" - Entire month
//
// For month names the year is inferred from now: a month already past
// belongs to next year, and for cross-month ranges an end month before the
// start month is in the year after the start.
//
// Returns (dateFrom, dateTo, error) in loc.
// Start time is at 00:00:00, end time is at 23:59:59.
func ParseDateRange(input string, now time.Time, loc *time.Location) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	// Format 1: "2026-03-01..2026-03-15"
	if from, to, ok := strings.Cut(input, ".."); ok {
		start, err := time.ParseInLocation(league.DayLayout, strings.TrimSpace(from), loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start date: %s", from)
		}
		end, err := time.ParseInLocation(league.DayLayout, strings.TrimSpace(to), loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end date: %s", to)
		}
		return bounds(start.Year(), start.Month(), start.Day(), end.Year(), end.Month(), end.Day(), loc)
	}

	// Format 2: "Mar 1-15" or "March 1-15"
	if matches := sameMonthRange.FindStringSubmatch(input); matches != nil {
		month := parseMonth(matches[1])
		day1, err := parseDay(matches[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(matches[3])
		if err != nil {
			return nil, nil, err
		}

		year := yearForMonth(month, now)
		return bounds(year, month, day1, year, month, day2, loc)
	}

	// Format 3: "Mar 1 - Apr 15" or "March 1 - April 15"
	if matches := crossMonthRange.FindStringSubmatch(input); matches != nil {
		month1 := parseMonth(matches[1])
		day1, err := parseDay(matches[2])
		if err != nil {
			return nil, nil, err
		}
		month2 := parseMonth(matches[3])
		day2, err := parseDay(matches[4])
		if err != nil {
			return nil, nil, err
		}

		year1 := yearForMonth(month1, now)
		year2 := year1
		// If month2 < month1, assume month2 is in the next year
		if month2 < month1 {
			year2++
		}
		return bounds(year1, month1, day1, year2, month2, day2, loc)
	}

	// Format 4: Single month "March" or "Mar" (entire month)
	if matches := wholeMonth.FindStringSubmatch(input); matches != nil {
		month := parseMonth(matches[1])
		year := yearForMonth(month, now)
		// Day 0 of the next month is the last day of this one
		return bounds(year, month, 1, year, month+1, 0, loc)
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use '2026-03-01..2026-03-15', 'Mar 1-15', 'March 1 - April 15', or 'March'")
}

func bounds(y1 int, m1 time.Month, d1 int, y2 int, m2 time.Month, d2 int, loc *time.Location) (*time.Time, *time.Time, error) {
	from := time.Date(y1, m1, d1, 0, 0, 0, 0, loc)
	to := time.Date(y2, m2, d2, 23, 59, 59, 0, loc)
	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &to, nil
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	return day, nil
}

// parseMonth converts a month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))

	months := map[string]time.Month{
		"jan": time.January, "january": time.January,
		"feb": time.February, "february": time.February,
		"mar": time.March, "march": time.March,
		"apr": time.April, "april": time.April,
		"may": time.May,
		"jun": time.June, "june": time.June,
		"jul": time.July, "july": time.July,
		"aug": time.August, "august": time.August,
		"sep": time.September, "september": time.September,
		"oct": time.October, "october": time.October,
		"nov": time.November, "november": time.November,
		"dec": time.December, "december": time.December,
	}

	return months[name]
}

// yearForMonth returns the year of the next occurrence of month, counting
// the current month as this year.
func yearForMonth(month time.Month, now time.Time) int {
	year := now.Year()
	if month < now.Month() {
		year++
	}
	return year
}
