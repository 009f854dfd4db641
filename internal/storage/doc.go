// Package storage keeps the last successful snapshot pair of a league on disk
// or in a GitHub Gist so a restarted process starts from stale-but-available
// data.
//
// One JSON file per league is written to the data directory or the gist:
//
//	snapshot_<league id>.json
package storage
