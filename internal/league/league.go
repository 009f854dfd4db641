package league

import (
	"strings"
	"time"
)

// Unknown is the default for absent text fields.
const Unknown = "Unknown"

// Zero is the default for absent score fields.
const Zero = "0"

// Team is one row of the league table.
type Team struct {
	Name           string `json:"name"`
	PointsPositive int    `json:"points_positive"`
	PointsNegative int    `json:"points_negative"`
	SetsPositive   int    `json:"sets_positive"`
	SetsNegative   int    `json:"sets_negative"`
	BallsPositive  int    `json:"balls_positive"`
	BallsNegative  int    `json:"balls_negative"`
	Games          int    `json:"games"`
	GamesWon       int    `json:"games_won"`
}

// Scoreboard is the parsed league table. Teams are in standings order.
type Scoreboard struct {
	Group      string `json:"group"`
	Region     string `json:"region"`
	LastChange string `json:"last_change"`
	League     string `json:"league"`
	Teams      []Team `json:"teams"`
}

// Game is one match of the schedule. Score fields keep the upstream strings.
type Game struct {
	Number      string `json:"game_number"`
	Date        string `json:"date"`
	NewDate     string `json:"new_date"`
	Time        string `json:"time"`
	TeamAName   string `json:"team_a_name"`
	TeamBName   string `json:"team_b_name"`
	TeamAPoints string `json:"team_a_points"`
	TeamBPoints string `json:"team_b_points"`
	TeamASets   string `json:"team_a_sets"`
	TeamBSets   string `json:"team_b_sets"`
	TeamABalls  string `json:"team_a_balls"`
	TeamBBalls  string `json:"team_b_balls"`
	State       string `json:"state"`
}

// Involves reports whether team plays on either side, ignoring case.
func (g Game) Involves(team string) bool {
	return strings.EqualFold(team, g.TeamAName) || strings.EqualFold(team, g.TeamBName)
}

// Schedule is the parsed match plan. TotalGames and CompletedGames always
// cover every game, independent of any team filter.
type Schedule struct {
	Group          string `json:"group"`
	Region         string `json:"region"`
	Games          []Game `json:"games"`
	TotalGames     int    `json:"total_games"`
	CompletedGames int    `json:"completed_games"`
}

// TeamSchedule is the schedule narrowed to one team, with totals recomputed
// over the narrowed games only.
type TeamSchedule struct {
	Team           string `json:"team"`
	Games          []Game `json:"games"`
	TotalGames     int    `json:"total_games"`
	CompletedGames int    `json:"completed_games"`
}

// Snapshot is the pair published by one successful refresh cycle.
type Snapshot struct {
	Scoreboard Scoreboard `json:"scoreboard"`
	Schedule   Schedule   `json:"schedule"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// EmptySnapshot returns the defaults exposed before the first successful refresh.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Scoreboard: Scoreboard{
			Group:      Unknown,
			Region:     Unknown,
			LastChange: Unknown,
			League:     Unknown,
			Teams:      []Team{},
		},
		Schedule: Schedule{
			Group:  Unknown,
			Region: Unknown,
			Games:  []Game{},
		},
	}
}

// IsEmpty reports whether the snapshot has never been filled by a refresh.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || s.FetchedAt.IsZero()
}
