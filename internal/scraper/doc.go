// Package scraper provides HTTP fetching and XML parsing for dieLiga league data.
//
// The scraper package fetches the scoreboard (league table) and the schedule
// documents of one league and normalizes them into league records. Parsing is
// deliberately lenient: only a document that is not well-formed XML is an
// error, every missing or malformed field resolves to its documented default.
package scraper
