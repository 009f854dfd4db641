package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service holds the Prometheus collectors of one process.
type Service struct {
	Refreshes       prometheus.Counter
	RefreshFailures *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	Teams           prometheus.Gauge
	GamesTotal      prometheus.Gauge
	GamesCompleted  prometheus.Gauge
	LastSuccess     prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dieliga_refresh_total",
			Help: "The total number of refresh cycles started.",
		}),
		RefreshFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dieliga_refresh_failures_total",
			Help: "The total number of failed refresh cycles by failure kind.",
		}, []string{"kind"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dieliga_fetch_duration_seconds",
			Help:    "The duration of fetching and parsing one league document.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		Teams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dieliga_teams",
			Help: "The number of teams in the current league table.",
		}),
		GamesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dieliga_games_total",
			Help: "The number of games in the current schedule.",
		}),
		GamesCompleted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dieliga_games_completed",
			Help: "The number of completed games in the current schedule.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dieliga_last_success_timestamp_seconds",
			Help: "Unix time of the last successful refresh.",
		}),
	}

	reg.MustRegister(
		s.Refreshes,
		s.RefreshFailures,
		s.FetchDuration,
		s.Teams,
		s.GamesTotal,
		s.GamesCompleted,
		s.LastSuccess,
	)

	return s
}

func (s *Service) IncRefresh() {
	s.Refreshes.Inc()
}

func (s *Service) IncRefreshFailure(kind string) {
	s.RefreshFailures.WithLabelValues(kind).Inc()
}

func (s *Service) ObserveFetchDuration(kind string, seconds float64) {
	s.FetchDuration.WithLabelValues(kind).Observe(seconds)
}

func (s *Service) SetSnapshot(teams, totalGames, completedGames int) {
	s.Teams.Set(float64(teams))
	s.GamesTotal.Set(float64(totalGames))
	s.GamesCompleted.Set(float64(completedGames))
}

func (s *Service) SetLastSuccess(t time.Time) {
	s.LastSuccess.Set(float64(t.Unix()))
}
