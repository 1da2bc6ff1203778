package models

import (
	"time"

	"github.com/shopspring/decimal"

	"gameness/game"
)

// GameType is an open enum; only Memory exists today.
type GameType int

const GameTypeMemory GameType = 1

func (t GameType) String() string {
	switch t {
	case GameTypeMemory:
		return "Memory"
	default:
		return "Unknown"
	}
}

// Game is one player's round: the seeded playfield it was dealt, its
// lifecycle flags and, once finished, its score.
type Game struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Seed   string `json:"seed" gorm:"size:100;not null"`
	Player string `json:"player" gorm:"index;not null"` // email identifying the player
	// Score is stored unclamped; use GameScore for presentation.
	Score    decimal.Decimal `json:"score" gorm:"type:decimal(10,3);not null;default:0"`
	GameType GameType        `json:"game_type" gorm:"not null;default:1"`
	Active   bool            `json:"active" gorm:"not null;default:false"`
	Finished bool            `json:"finished" gorm:"not null;default:false"`
	// Playfield is the JSON-serialized matrix; written at generation time and
	// immutable once the round starts.
	Playfield string `json:"-" gorm:"type:text;not null;default:'[]'"`
	// AverageTime is the mean seconds per turn, set at completion.
	AverageTime decimal.Decimal `json:"average_time" gorm:"type:decimal(10,3);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationships
	Turns    []Turn          `json:"turns,omitempty" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
	Suspects []SuspectedGame `json:"suspects,omitempty" gorm:"foreignKey:GameID"`
}

// GameScore formats the score for leaderboards and UI: quantized to 3
// decimal places, with non-positive results shown as 0. The stored Score
// keeps its sign.
func (g *Game) GameScore() decimal.Decimal {
	score := g.Score.Round(3)
	if score.IsPositive() {
		return score
	}
	return decimal.Zero
}

// SetFinished closes out the round. Finished never reverts.
func (g *Game) SetFinished() {
	g.Finished = true
	g.Active = false
}

// Field parses the stored playfield back into matrix form.
func (g *Game) Field() (game.Playfield, error) {
	return game.ParsePlayfield(g.Playfield)
}
