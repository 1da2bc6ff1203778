package models

import (
	"encoding/json"
	"time"

	"gameness/game"
)

// Turn records one resolved pair of clicks. A single buffered click is not a
// turn; a finished board therefore carries exactly one turn per two clicks.
type Turn struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	GameID uint `json:"game_id" gorm:"not null;index"`
	// Meta is the serialized click pair, an audit trail only.
	Meta      string    `json:"meta" gorm:"type:text;not null;default:'{}'"`
	IsMatch   bool      `json:"is_match" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Game Game `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// TurnMeta is the stored shape of a turn's click pair.
type TurnMeta struct {
	Click [2]game.ResolvedClick `json:"click"`
}

// EncodeTurnMeta serializes an evaluated click pair for storage on a turn.
func EncodeTurnMeta(clicks [2]game.ResolvedClick) (string, error) {
	data, err := json.Marshal(TurnMeta{Click: clicks})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
