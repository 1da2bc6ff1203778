package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gameness/game"
	"gameness/models"
)

// MemoryStore is an in-process GameStore used by tests and local runs
// without a database. Same invariants as the gorm store, including the
// atomic stop-then-create in CreateGame.
type MemoryStore struct {
	mu       sync.RWMutex
	games    map[uint]*models.Game
	turns    map[uint][]models.Turn
	suspects []models.SuspectedGame
	nextGame uint
	nextTurn uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[uint]*models.Game),
		turns: make(map[uint][]models.Turn),
	}
}

func (s *MemoryStore) CreateGame(g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.games {
		if existing.Active && !existing.Finished && existing.Player == g.Player {
			existing.Active = false
		}
	}

	s.nextGame++
	g.ID = s.nextGame
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	stored := *g
	s.games[g.ID] = &stored
	return nil
}

func (s *MemoryStore) Save(g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[g.ID]; !ok {
		return fmt.Errorf("game %d not found", g.ID)
	}
	stored := *g
	s.games[g.ID] = &stored
	return nil
}

func (s *MemoryStore) FindActiveGame(player string) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Game
	for _, g := range s.games {
		if !g.Active || g.Finished || g.Player != player {
			continue
		}
		if latest == nil || g.CreatedAt.After(latest.CreatedAt) {
			latest = g
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: player %s", game.ErrNoActiveGame, player)
	}
	found := *latest
	return &found, nil
}

func (s *MemoryStore) PlayerHasActiveGames(player string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.games {
		if g.Active && !g.Finished && g.Player == player {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) StopActiveGames(player string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stopped int64
	for _, g := range s.games {
		if g.Active && !g.Finished && g.Player == player {
			g.Active = false
			stopped++
		}
	}
	return stopped, nil
}

func (s *MemoryStore) AppendTurn(g *models.Game, turn *models.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTurn++
	turn.ID = s.nextTurn
	turn.GameID = g.ID
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	s.turns[g.ID] = append(s.turns[g.ID], *turn)
	return nil
}

func (s *MemoryStore) Turns(gameID uint) ([]models.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := make([]models.Turn, len(s.turns[gameID]))
	copy(turns, s.turns[gameID])
	return turns, nil
}

func (s *MemoryStore) Highscores() ([]models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var games []models.Game
	for _, g := range s.games {
		if !g.Active && g.Finished {
			games = append(games, *g)
		}
	}
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Score.GreaterThan(games[j].Score)
	})
	return games, nil
}

func (s *MemoryStore) BestScore(player string) (*models.Game, error) {
	scores, err := s.Highscores()
	if err != nil {
		return nil, err
	}
	for _, g := range scores {
		if g.Player == player {
			best := g
			return &best, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) UniqueHighscores(n int) ([]models.Game, bool, error) {
	scores, err := s.Highscores()
	if err != nil {
		return nil, false, err
	}
	winners, enough := dedupeByPlayer(scores, n)
	return winners, enough, nil
}

func (s *MemoryStore) CreateSuspectedGame(suspect *models.SuspectedGame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	suspect.ID = uint(len(s.suspects) + 1)
	if suspect.CreatedAt.IsZero() {
		suspect.CreatedAt = time.Now()
	}
	s.suspects = append(s.suspects, *suspect)
	return nil
}

func (s *MemoryStore) HasSuspectedGame(gameID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, suspect := range s.suspects {
		if suspect.GameID == gameID {
			return true, nil
		}
	}
	return false, nil
}

// SuspectedGames returns all suspicion records, newest last. Test helper.
func (s *MemoryStore) SuspectedGames() []models.SuspectedGame {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SuspectedGame, len(s.suspects))
	copy(out, s.suspects)
	return out
}
