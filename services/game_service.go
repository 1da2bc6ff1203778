package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"gameness/config"
	"gameness/game"
	"gameness/models"
	"gameness/store"
)

// GameService orchestrates a round across requests: starting it, feeding
// clicks through the evaluator, and closing it out with score and suspicion
// checks. All round state lives in the store and the click buffer; the
// service itself is stateless.
type GameService struct {
	store     store.GameStore
	clicks    ClickBuffer
	suspicion *SuspicionDetector
	cfg       *config.Config
}

func NewGameService(gameStore store.GameStore, clicks ClickBuffer, suspicion *SuspicionDetector, cfg *config.Config) *GameService {
	return &GameService{
		store:     gameStore,
		clicks:    clicks,
		suspicion: suspicion,
		cfg:       cfg,
	}
}

type StartGameRequest struct {
	Player string `json:"player" binding:"required,email"`
}

type StartGameResponse struct {
	Success   bool            `json:"success"`
	Player    string          `json:"player"`
	GameID    uint            `json:"game_id"`
	Name      string          `json:"name"`
	Rows      int             `json:"rows"`
	Cols      int             `json:"cols"`
	BestScore decimal.Decimal `json:"best_score"`
	Token     string          `json:"token"`
}

type SubmitClickRequest struct {
	Click game.Click `json:"click"`
}

// ClickResponse covers the three shapes a click can produce: buffered
// (match is null), resolved (match and the annotated click pair), and
// completed (score included). The board solution is never part of it.
type ClickResponse struct {
	Success   bool                 `json:"success"`
	Match     *bool                `json:"match"`
	Click     []game.ResolvedClick `json:"click,omitempty"`
	Completed bool                 `json:"completed,omitempty"`
	Score     *decimal.Decimal     `json:"score,omitempty"`
}

// StartGame stops any round the player still has running, deals a fresh
// seeded playfield and returns the board dimensions together with a session
// token for the new round. The solution stays server-side.
func (s *GameService) StartGame(ctx context.Context, player string) (*StartGameResponse, error) {
	// A leftover round means the player abandoned mid-game; drop its
	// half-finished turn with it.
	if stale, err := s.store.FindActiveGame(player); err == nil {
		log.Warn().Str("player", player).Uint("game_id", stale.ID).
			Msg("found existing active round, stopping it")
		if err := s.clicks.ClearPending(ctx, stale.ID); err != nil {
			log.Warn().Err(err).Uint("game_id", stale.ID).Msg("failed to clear stale pending click")
		}
	}

	seed := newSeed()
	field, elapsed, err := game.Generate(s.cfg.BoardRows, s.cfg.BoardCols, seed)
	if err != nil {
		return nil, err
	}
	log.Debug().Float64("seconds", elapsed).Str("seed", seed).Msg("playfield generated")

	raw, err := field.Marshal()
	if err != nil {
		return nil, err
	}

	g := &models.Game{
		Seed:      seed,
		Player:    player,
		GameType:  models.GameTypeMemory,
		Active:    true,
		Playfield: raw,
	}
	// CreateGame also stops prior active rounds atomically.
	if err := s.store.CreateGame(g); err != nil {
		return nil, err
	}

	best := decimal.Zero
	if bestGame, err := s.store.BestScore(player); err != nil {
		return nil, err
	} else if bestGame != nil {
		best = bestGame.GameScore()
	}

	token, err := IssueGameToken(s.cfg.JWTSecret, player, g.ID, pendingClickTTL)
	if err != nil {
		return nil, err
	}

	return &StartGameResponse{
		Success:   true,
		Player:    player,
		GameID:    g.ID,
		Name:      g.GameType.String(),
		Rows:      field.Rows(),
		Cols:      field.Columns(),
		BestScore: best,
		Token:     token,
	}, nil
}

// SubmitClick feeds one click into the player's active round. The first
// click of a pair is buffered; the second resolves a turn. When the turn
// matches the final pair the round is finished, scored and handed to the
// suspicion detector.
func (s *GameService) SubmitClick(ctx context.Context, gameID uint, player string, click game.Click) (*ClickResponse, error) {
	g, err := s.store.FindActiveGame(player)
	if err != nil {
		return nil, err
	}
	if g.ID != gameID {
		return nil, fmt.Errorf("%w: round %d does not belong to this session", game.ErrNoActiveGame, gameID)
	}

	field, err := g.Field()
	if err != nil {
		return nil, err
	}

	pending, err := s.clicks.Pending(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	outcome, err := game.ResolveClick(field, pending, click)
	if err != nil {
		// Validation failure: the pending click stays buffered, no turn is
		// written.
		return nil, err
	}

	if outcome.Buffered {
		if err := s.clicks.SetPending(ctx, g.ID, click); err != nil {
			return nil, err
		}
		return &ClickResponse{Success: true, Match: nil}, nil
	}

	meta, err := models.EncodeTurnMeta(outcome.Clicks)
	if err != nil {
		return nil, err
	}
	turn := &models.Turn{Meta: meta, IsMatch: outcome.Match}
	if err := s.store.AppendTurn(g, turn); err != nil {
		return nil, err
	}
	if err := s.clicks.ClearPending(ctx, g.ID); err != nil {
		return nil, err
	}

	turns, err := s.store.Turns(g.ID)
	if err != nil {
		return nil, err
	}
	matched := 0
	for _, t := range turns {
		if t.IsMatch {
			matched++
		}
	}

	resp := &ClickResponse{
		Success: true,
		Match:   &outcome.Match,
		Click:   outcome.Clicks[:],
	}
	if !field.Complete(matched) {
		return resp, nil
	}

	first := turns[0].CreatedAt
	last := turns[len(turns)-1].CreatedAt
	score, err := game.ComputeScore(len(turns), matched, first, last, s.cfg.RoundTimeBudget)
	if err != nil {
		return nil, err
	}

	g.Score = score
	g.AverageTime = game.AverageTurnTime(len(turns), first, last)
	g.SetFinished()
	if err := s.store.Save(g); err != nil {
		return nil, err
	}

	if _, err := s.suspicion.Evaluate(g); err != nil {
		// Suspicion is advisory; a failed check must not fail the round.
		log.Error().Err(err).Uint("game_id", g.ID).Msg("suspicion evaluation failed")
	}

	log.Info().Uint("game_id", g.ID).Str("player", player).
		Str("score", score.String()).Int("turns", len(turns)).
		Msg("round finished")

	resp.Completed = true
	resp.Score = &score
	return resp, nil
}

// IsNoActiveGame reports whether an error should surface as a not-found
// response rather than a validation failure.
func IsNoActiveGame(err error) bool {
	return errors.Is(err, game.ErrNoActiveGame)
}

// newSeed returns a fresh uuid4 in hex form, the shape stored seeds have
// always had.
func newSeed() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
