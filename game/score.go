package game

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scoring constants carried over unchanged from the original contest rules.
const (
	correctAward   = 150.0
	errorDeduction = correctAward * 0.11123
	timeBonusRate  = 5.123214
)

// ComputeScore derives a finished round's score from its turn counts and the
// span between the first and last turn. timeBudget is the par time in
// seconds; finishing under par earns a bonus per second left, overruns clamp
// to zero. The stored result keeps its sign; presentation clamps separately.
// Rounded to 3 decimal places.
func ComputeScore(turnsTotal, turnsMatched int, first, last time.Time, timeBudget int) (decimal.Decimal, error) {
	if turnsTotal == 0 {
		return decimal.Zero, ErrInsufficientData
	}

	secondsLeft := float64(timeBudget) - last.Sub(first).Seconds()
	if secondsLeft < 0 {
		secondsLeft = 0
	}

	points := float64(turnsMatched) * correctAward
	points -= float64(turnsTotal-turnsMatched) * 2 * errorDeduction
	points += secondsLeft * timeBonusRate

	return decimal.NewFromFloat(points).Round(3), nil
}

// AverageTurnTime is the mean seconds per turn across a round, measured over
// the span between the first and last turn. Zero until at least two turns
// exist. Rounded to 3 decimal places.
func AverageTurnTime(turnsTotal int, first, last time.Time) decimal.Decimal {
	if turnsTotal < 2 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(last.Sub(first).Seconds() / float64(turnsTotal)).Round(3)
}
