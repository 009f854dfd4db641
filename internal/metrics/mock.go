package metrics

import (
	"sync"
	"time"
)

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu             sync.Mutex
	refreshes      int
	failures       map[string]int
	fetchDurations map[string][]float64
	teams          int
	totalGames     int
	completedGames int
	lastSuccess    time.Time
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		failures:       make(map[string]int),
		fetchDurations: make(map[string][]float64),
	}
}

func (m *Mock) IncRefresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
}

func (m *Mock) IncRefreshFailure(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[kind]++
}

func (m *Mock) ObserveFetchDuration(kind string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchDurations[kind] = append(m.fetchDurations[kind], seconds)
}

func (m *Mock) SetSnapshot(teams, totalGames, completedGames int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams = teams
	m.totalGames = totalGames
	m.completedGames = completedGames
}

func (m *Mock) SetLastSuccess(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSuccess = t
}

// Refreshes returns the number of times IncRefresh was called.
func (m *Mock) Refreshes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshes
}

// Failures returns the number of failures recorded for kind.
func (m *Mock) Failures(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures[kind]
}

// FetchCount returns how many durations were observed for kind.
func (m *Mock) FetchCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fetchDurations[kind])
}

// Snapshot returns the last values passed to SetSnapshot.
func (m *Mock) Snapshot() (teams, totalGames, completedGames int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teams, m.totalGames, m.completedGames
}

// LastSuccess returns the last value passed to SetLastSuccess.
func (m *Mock) LastSuccess() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSuccess
}
