// Package league provides the normalized dieLiga data model and the values
// derived from it.
//
// A Snapshot pairs the league table (Scoreboard) with the match plan
// (Schedule) from one refresh cycle. Snapshots are immutable once built;
// every query in this package is a pure read, so a published snapshot can be
// shared freely between goroutines.
package league
