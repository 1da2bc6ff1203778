package store

import "gameness/models"

// GameStore is the persistence boundary the round engine runs against. The
// single-active-round invariant lives here: CreateGame must stop any rounds
// the player already has in flight in the same atomic step that inserts the
// new one.
type GameStore interface {
	CreateGame(game *models.Game) error
	Save(game *models.Game) error

	// FindActiveGame returns the player's in-progress, unfinished round, or
	// game.ErrNoActiveGame. More than one active round is an anomaly: it is
	// logged and the most recently created wins.
	FindActiveGame(player string) (*models.Game, error)
	PlayerHasActiveGames(player string) (bool, error)
	// StopActiveGames marks every active round for the player inactive and
	// returns how many it touched.
	StopActiveGames(player string) (int64, error)

	AppendTurn(game *models.Game, turn *models.Turn) error
	// Turns lists a round's turns in creation order.
	Turns(gameID uint) ([]models.Turn, error)

	// Highscores lists finished, inactive rounds by score descending.
	Highscores() ([]models.Game, error)
	// BestScore returns the player's highest-scoring finished round, or nil
	// when the player never finished one.
	BestScore(player string) (*models.Game, error)
	// UniqueHighscores returns the top n rounds deduplicated by player,
	// score-descending. The flag is false when fewer than n distinct players
	// qualify.
	UniqueHighscores(n int) ([]models.Game, bool, error)

	CreateSuspectedGame(suspect *models.SuspectedGame) error
	HasSuspectedGame(gameID uint) (bool, error)
}
