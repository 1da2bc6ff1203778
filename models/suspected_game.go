package models

import "time"

// SuspectedGame marks a round whose average turn time fell below the
// configured threshold. Advisory only: it never blocks play or scoring.
// Records are created once and never mutated; the referenced game cannot be
// deleted while a suspicion record points at it.
type SuspectedGame struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GameID    uint      `json:"game_id" gorm:"not null;index"`
	Player    string    `json:"player" gorm:"not null"`
	Reason    string    `json:"reason" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Game Game `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
}
