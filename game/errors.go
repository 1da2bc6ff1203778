package game

import "errors"

// Validation failures are surfaced to the caller without mutating round state.
var (
	ErrInvalidDimensions = errors.New("playfield must hold an even number of cells")
	ErrInvalidClick      = errors.New("click is outside the playfield")
	ErrCorruptMove       = errors.New("corrupt move")
	ErrNoActiveGame      = errors.New("no active game session found")
	ErrInsufficientData  = errors.New("round has no turns to score")
)
