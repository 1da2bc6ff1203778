package services

import (
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"gameness/models"
	"gameness/store"
)

func suspectCandidate(t *testing.T, s *store.MemoryStore, averageTime string) *models.Game {
	t.Helper()
	avg, _ := decimal.NewFromString(averageTime)
	g := &models.Game{
		Seed:        "seed",
		Player:      "test1@test.com",
		GameType:    models.GameTypeMemory,
		Finished:    true,
		AverageTime: avg,
	}
	if err := s.CreateGame(g); err != nil {
		t.Fatalf("CreateGame() error: %v", err)
	}
	return g
}

func TestEvaluateFlagsFastRounds(t *testing.T) {
	memStore := store.NewMemoryStore()
	detector := NewSuspicionDetector(memStore, 1.5)

	g := suspectCandidate(t, memStore, "0.5")

	flagged, err := detector.Evaluate(g)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if !flagged {
		t.Fatal("round below threshold must be flagged")
	}

	suspects := memStore.SuspectedGames()
	if len(suspects) != 1 {
		t.Fatalf("suspects = %d, want 1", len(suspects))
	}
	suspect := suspects[0]
	if suspect.GameID != g.ID || suspect.Player != g.Player {
		t.Fatalf("suspect references wrong round: %+v", suspect)
	}
	if !strings.Contains(suspect.Reason, strconv.Itoa(int(g.ID))) ||
		!strings.Contains(suspect.Reason, g.Player) ||
		!strings.Contains(suspect.Reason, "0.5") {
		t.Fatalf("reason misses diagnostics: %q", suspect.Reason)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	memStore := store.NewMemoryStore()
	detector := NewSuspicionDetector(memStore, 1.5)

	g := suspectCandidate(t, memStore, "0.25")

	for i := 0; i < 3; i++ {
		flagged, err := detector.Evaluate(g)
		if err != nil {
			t.Fatalf("Evaluate() #%d error: %v", i, err)
		}
		if !flagged {
			t.Fatalf("Evaluate() #%d = false, want true", i)
		}
	}

	if suspects := memStore.SuspectedGames(); len(suspects) != 1 {
		t.Fatalf("suspects after re-evaluation = %d, want 1", len(suspects))
	}
}

func TestEvaluateLeavesSlowRoundsAlone(t *testing.T) {
	memStore := store.NewMemoryStore()
	detector := NewSuspicionDetector(memStore, 1.5)

	tests := []struct {
		name        string
		averageTime string
	}{
		{name: "above threshold", averageTime: "3.2"},
		{name: "exactly at threshold", averageTime: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := suspectCandidate(t, memStore, tt.averageTime)
			flagged, err := detector.Evaluate(g)
			if err != nil {
				t.Fatalf("Evaluate() error: %v", err)
			}
			if flagged {
				t.Fatal("round at or above threshold must not be flagged")
			}
		})
	}

	if suspects := memStore.SuspectedGames(); len(suspects) != 0 {
		t.Fatalf("suspects = %d, want 0", len(suspects))
	}
}
