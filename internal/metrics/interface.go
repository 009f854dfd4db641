package metrics

import "time"

// Metrics defines the interface for collecting refresh metrics.
// This decouples the coordinator from the specific metrics implementation.
type Metrics interface {
	IncRefresh()
	IncRefreshFailure(kind string)
	ObserveFetchDuration(kind string, seconds float64)
	SetSnapshot(teams, totalGames, completedGames int)
	SetLastSuccess(t time.Time)
}
