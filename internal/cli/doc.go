// Package cli implements the command-line interface for dieliga.
//
// The cli package provides the Cobra-based CLI: connectivity checks, standings,
// the match plan (sortable by date, number or home team), the match-day check,
// calendar listing and ICS export, and the long-running watch mode that serves
// the HTTP API. Commands fetch through the coordinator so a failed fetch falls
// back to the snapshot stored by an earlier run.
package cli
