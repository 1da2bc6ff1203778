package services

import (
	"github.com/shopspring/decimal"

	"gameness/models"
	"gameness/store"
)

// leaderboardSize is how many entries the contest leaderboard shows.
const leaderboardSize = 5

// HighscoreService is the read model over finished rounds.
type HighscoreService struct {
	store store.GameStore
}

func NewHighscoreService(gameStore store.GameStore) *HighscoreService {
	return &HighscoreService{store: gameStore}
}

// HighscoreEntry is one leaderboard row. Scores are display-clamped.
type HighscoreEntry struct {
	GameID uint            `json:"game_id"`
	Player string          `json:"player"`
	Score  decimal.Decimal `json:"score"`
}

type HighscoreOverview struct {
	BestScore    decimal.Decimal  `json:"best_score"`
	Top          []HighscoreEntry `json:"top"`
	UniqueTop    []HighscoreEntry `json:"unique_top"`
	EnoughUnique bool             `json:"enough_unique"`
}

// Overview assembles the player's best score, the overall top list and the
// top list deduplicated by player.
func (s *HighscoreService) Overview(player string) (*HighscoreOverview, error) {
	best := decimal.Zero
	if bestGame, err := s.store.BestScore(player); err != nil {
		return nil, err
	} else if bestGame != nil {
		best = bestGame.GameScore()
	}

	scores, err := s.store.Highscores()
	if err != nil {
		return nil, err
	}
	if len(scores) > leaderboardSize {
		scores = scores[:leaderboardSize]
	}

	unique, enough, err := s.store.UniqueHighscores(leaderboardSize)
	if err != nil {
		return nil, err
	}

	return &HighscoreOverview{
		BestScore:    best,
		Top:          toEntries(scores),
		UniqueTop:    toEntries(unique),
		EnoughUnique: enough,
	}, nil
}

func toEntries(games []models.Game) []HighscoreEntry {
	entries := make([]HighscoreEntry, 0, len(games))
	for i := range games {
		entries = append(entries, HighscoreEntry{
			GameID: games[i].ID,
			Player: games[i].Player,
			Score:  games[i].GameScore(),
		})
	}
	return entries
}
