package calendar

import (
	"fmt"
	"strings"
	"time"
)

// GenerateICS renders events as an iCalendar (.ics) feed. leagueID scopes the
// event UIDs, which stay stable across refreshes as long as a match keeps its
// number and start. now is used for DTSTAMP.
func GenerateICS(leagueID string, events []Event, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//dieLiga//dieliga//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS("dieLiga "+leagueID)))

	stamp := formatICSTime(now)
	for _, ev := range events {
		ics.WriteString("BEGIN:VEVENT\r\n")
		ics.WriteString(fmt.Sprintf("UID:%s\r\n", eventUID(leagueID, ev)))
		ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
		ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(ev.Start)))
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(ev.End)))
		ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(ev.Summary)))
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(ev.Description)))
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(ev.Location)))
		ics.WriteString("STATUS:CONFIRMED\r\n")
		ics.WriteString("SEQUENCE:0\r\n")
		ics.WriteString("TRANSP:OPAQUE\r\n")
		ics.WriteString("END:VEVENT\r\n")
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func eventUID(leagueID string, ev Event) string {
	return fmt.Sprintf("%s-%s-%s@dieliga", leagueID, ev.GameNumber, ev.Start.UTC().Format("20060102T1504"))
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
