package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pfrederiksen/dieliga/internal/league"
)

func testSnapshot() *league.Snapshot {
	return &league.Snapshot{
		Scoreboard: league.Scoreboard{
			Group:      "Group A",
			Region:     "Region 1",
			LastChange: "2026-01-31",
			League:     "Test League",
			Teams: []league.Team{
				{Name: "Team 1", PointsPositive: 10, PointsNegative: 2, Games: 5, GamesWon: 4},
			},
		},
		Schedule: league.Schedule{
			Group:  "Group A",
			Region: "Region 1",
			Games: []league.Game{
				{Number: "101", Date: "2026-01-01", NewDate: "-", Time: "10:00", TeamAName: "Team 1", TeamBName: "Team 2"},
			},
			TotalGames:     1,
			CompletedGames: 1,
		},
		FetchedAt: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestSaveLoad(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	want := testSnapshot()
	if err := s.Save("4711", want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok, err := s.Load("4711")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected stored snapshot to be found")
	}
	if got.Scoreboard.League != "Test League" {
		t.Errorf("expected league 'Test League', got %q", got.Scoreboard.League)
	}
	if len(got.Scoreboard.Teams) != 1 || got.Scoreboard.Teams[0] != want.Scoreboard.Teams[0] {
		t.Errorf("teams differ: %+v", got.Scoreboard.Teams)
	}
	if len(got.Schedule.Games) != 1 || got.Schedule.Games[0] != want.Schedule.Games[0] {
		t.Errorf("games differ: %+v", got.Schedule.Games)
	}
	if got.Schedule.TotalGames != 1 || got.Schedule.CompletedGames != 1 {
		t.Errorf("unexpected totals %d/%d", got.Schedule.CompletedGames, got.Schedule.TotalGames)
	}
	if !got.FetchedAt.Equal(want.FetchedAt) {
		t.Errorf("expected FetchedAt %v, got %v", want.FetchedAt, got.FetchedAt)
	}

	if _, err := os.Stat(filepath.Join(s.Dir(), "snapshot_4711.json")); err != nil {
		t.Errorf("expected snapshot file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "snapshot_4711.json.tmp")); !os.IsNotExist(err) {
		t.Error("temporary file should not remain")
	}
}

func TestLoad_Missing(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	snap, ok, err := s.Load("1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing snapshot")
	}
	if !snap.IsEmpty() || snap.Scoreboard.League != league.Unknown {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "snapshot_9.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := s.Load("9"); err == nil {
		t.Error("expected error for corrupt snapshot")
	}
}

func TestSave_Nil(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	if err := s.Save("1", nil); err == nil {
		t.Error("expected error for nil snapshot")
	}
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/dieliga-data")
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	want := filepath.Join(home, "dieliga-data")
	if s.Dir() != want {
		t.Errorf("expected dir %q, got %q", want, s.Dir())
	}
	if info, err := os.Stat(want); err != nil || !info.IsDir() {
		t.Errorf("expected directory to be created: %v", err)
	}
}
