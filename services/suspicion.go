package services

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"gameness/models"
	"gameness/store"
)

// SuspicionDetector flags rounds played faster than a human plausibly could.
// Advisory only: a flag never blocks play or changes a score.
type SuspicionDetector struct {
	store     store.GameStore
	threshold decimal.Decimal
}

// NewSuspicionDetector takes the average-turn-time floor in seconds.
func NewSuspicionDetector(gameStore store.GameStore, threshold float64) *SuspicionDetector {
	return &SuspicionDetector{
		store:     gameStore,
		threshold: decimal.NewFromFloat(threshold),
	}
}

// Evaluate flags the round when its average turn time is below the
// threshold. At most one suspicion record exists per round; re-evaluating an
// already-flagged round is a no-op.
func (d *SuspicionDetector) Evaluate(g *models.Game) (bool, error) {
	if !g.AverageTime.LessThan(d.threshold) {
		return false, nil
	}

	flagged, err := d.store.HasSuspectedGame(g.ID)
	if err != nil {
		return false, err
	}
	if flagged {
		return true, nil
	}

	reason := fmt.Sprintf("The round %d by %s may be cheating. Average time for a round is %s.",
		g.ID, g.Player, g.AverageTime)
	suspect := &models.SuspectedGame{
		GameID: g.ID,
		Player: g.Player,
		Reason: reason,
	}
	if err := d.store.CreateSuspectedGame(suspect); err != nil {
		return false, err
	}

	log.Warn().Uint("game_id", g.ID).Str("player", g.Player).
		Str("average_time", g.AverageTime.String()).
		Msg("round flagged as suspected")
	return true, nil
}
