package store

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"gameness/game"
	"gameness/models"
)

// GormStore backs GameStore with postgres through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// CreateGame stops the player's active rounds and inserts the new one in a
// single transaction, so two racing start requests cannot leave two active
// rounds behind.
func (s *GormStore) CreateGame(g *models.Game) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Game{}).
			Where("active = ? AND finished = ? AND player = ?", true, false, g.Player).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(g).Error
	})
}

func (s *GormStore) Save(g *models.Game) error {
	return s.db.Save(g).Error
}

func (s *GormStore) FindActiveGame(player string) (*models.Game, error) {
	var games []models.Game
	err := s.db.Where("active = ? AND finished = ? AND player = ?", true, false, player).
		Order("created_at DESC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: player %s", game.ErrNoActiveGame, player)
	}
	if len(games) > 1 {
		log.Warn().Str("player", player).Int("count", len(games)).
			Msg("player has more than one active round")
	}
	return &games[0], nil
}

func (s *GormStore) PlayerHasActiveGames(player string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Game{}).
		Where("active = ? AND finished = ? AND player = ?", true, false, player).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) StopActiveGames(player string) (int64, error) {
	res := s.db.Model(&models.Game{}).
		Where("active = ? AND finished = ? AND player = ?", true, false, player).
		Update("active", false)
	return res.RowsAffected, res.Error
}

func (s *GormStore) AppendTurn(g *models.Game, turn *models.Turn) error {
	turn.GameID = g.ID
	return s.db.Create(turn).Error
}

func (s *GormStore) Turns(gameID uint) ([]models.Turn, error) {
	var turns []models.Turn
	err := s.db.Where("game_id = ?", gameID).Order("created_at ASC, id ASC").Find(&turns).Error
	return turns, err
}

func (s *GormStore) Highscores() ([]models.Game, error) {
	var games []models.Game
	err := s.db.Where("active = ? AND finished = ?", false, true).
		Order("score DESC").
		Find(&games).Error
	return games, err
}

func (s *GormStore) BestScore(player string) (*models.Game, error) {
	var g models.Game
	err := s.db.Where("active = ? AND finished = ? AND player = ?", false, true, player).
		Order("score DESC").
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UniqueHighscores walks the ordered highscore list keeping each player's
// first (highest) entry. DISTINCT ON would do this in one query; the walk
// keeps the store portable and the lists are short.
func (s *GormStore) UniqueHighscores(n int) ([]models.Game, bool, error) {
	scores, err := s.Highscores()
	if err != nil {
		return nil, false, err
	}
	winners, enough := dedupeByPlayer(scores, n)
	if !enough {
		log.Info().Int("want", n).Int("got", len(winners)).
			Msg("not enough unique contestants to fill the winner list")
	}
	return winners, enough, nil
}

func (s *GormStore) CreateSuspectedGame(suspect *models.SuspectedGame) error {
	return s.db.Create(suspect).Error
}

func (s *GormStore) HasSuspectedGame(gameID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.SuspectedGame{}).Where("game_id = ?", gameID).Count(&count).Error
	return count > 0, err
}

// dedupeByPlayer keeps the first entry seen per player, preserving order.
func dedupeByPlayer(scores []models.Game, n int) ([]models.Game, bool) {
	winners := make([]models.Game, 0, n)
	seen := make(map[string]bool)
	for _, score := range scores {
		if seen[score.Player] {
			continue
		}
		winners = append(winners, score)
		seen[score.Player] = true
		if len(winners) == n {
			break
		}
	}
	return winners, len(winners) >= n
}
