package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pfrederiksen/dieliga/internal/league"
)

// Storage persists the last successful snapshot pair of each league.
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the expanded data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

func (s *Storage) snapshotPath(leagueID string) string {
	return filepath.Join(s.dataDir, snapshotName(leagueID))
}

func snapshotName(leagueID string) string {
	return fmt.Sprintf("snapshot_%s.json", leagueID)
}

// Load reads the stored snapshot of leagueID. When nothing has been stored yet
// it returns league.EmptySnapshot() and false.
func (s *Storage) Load(leagueID string) (*league.Snapshot, bool, error) {
	data, err := os.ReadFile(s.snapshotPath(leagueID))
	if err != nil {
		if os.IsNotExist(err) {
			return league.EmptySnapshot(), false, nil
		}
		return nil, false, fmt.Errorf("reading snapshot: %w", err)
	}

	snapshot, err := decodeSnapshot(data)
	if err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}

func decodeSnapshot(data []byte) (*league.Snapshot, error) {
	var snapshot league.Snapshot
	if err := sonic.ConfigStd.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Scoreboard.Teams == nil {
		snapshot.Scoreboard.Teams = []league.Team{}
	}
	if snapshot.Schedule.Games == nil {
		snapshot.Schedule.Games = []league.Game{}
	}
	return &snapshot, nil
}

// Save writes snapshot for leagueID, replacing the previous file.
func (s *Storage) Save(leagueID string, snapshot *league.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("saving snapshot: nil snapshot")
	}

	data, err := sonic.ConfigStd.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	path := s.snapshotPath(leagueID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}
