package game

import (
	"encoding/json"
	"fmt"
	"math/big"
	"math/rand"
	"time"
)

// Playfield is a row-major matrix of pair identifiers. Every identifier in
// 0..Pairs()-1 occupies exactly two cells.
type Playfield [][]int

const unassigned = -1

// randintUpper mirrors the inclusive upper bound of the draw each coordinate
// is reduced from. Changing it changes every seeded layout.
const randintUpper = 1000

func (p Playfield) Rows() int {
	return len(p)
}

func (p Playfield) Columns() int {
	if len(p) == 0 {
		return 0
	}
	return len(p[0])
}

// Pairs returns the number of matchable card pairs on the board.
func (p Playfield) Pairs() int {
	return p.Rows() * p.Columns() / 2
}

// CardAt resolves the pair identifier at a clicked cell.
func (p Playfield) CardAt(click Click) (int, error) {
	if click.Row < 0 || click.Row >= p.Rows() || click.Column < 0 || click.Column >= p.Columns() {
		return 0, fmt.Errorf("%w: row=%d column=%d", ErrInvalidClick, click.Row, click.Column)
	}
	return p[click.Row][click.Column], nil
}

// Complete reports whether every pair on the board has been matched.
func (p Playfield) Complete(matchedTurns int) bool {
	return matchedTurns == p.Pairs()
}

// Marshal serializes the matrix to the JSON form stored on a game record.
func (p Playfield) Marshal() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal playfield: %w", err)
	}
	return string(data), nil
}

// ParsePlayfield loads a stored playfield back into matrix form.
func ParsePlayfield(raw string) (Playfield, error) {
	var p Playfield
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to parse playfield: %w", err)
	}
	return p, nil
}

// Generate produces the playfield for a new round. The layout is fully
// determined by the seed string: each character maps to its ordinal code, the
// codes concatenate into one integer, and that integer seeds a private
// generator scoped to this call. Pair indices are placed in increasing order
// by drawing two coordinate pairs per index and rejecting draws where the
// cells coincide or are already occupied. Returns the matrix and the
// wall-clock generation time in seconds (diagnostic only).
func Generate(rows, columns int, seed string) (Playfield, float64, error) {
	if rows < 1 || columns < 1 || (rows*columns)%2 != 0 {
		return nil, 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, columns)
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(deriveSeed(seed)))

	matrix := make(Playfield, rows)
	for i := range matrix {
		matrix[i] = make([]int, columns)
		for j := range matrix[i] {
			matrix[i][j] = unassigned
		}
	}

	pairs := rows * columns / 2
	for pair := 0; pair < pairs; pair++ {
		for {
			row1 := rng.Intn(randintUpper+1) % rows
			column1 := rng.Intn(randintUpper+1) % columns
			row2 := rng.Intn(randintUpper+1) % rows
			column2 := rng.Intn(randintUpper+1) % columns

			if row1 == row2 && column1 == column2 {
				continue
			}
			if matrix[row1][column1] != unassigned || matrix[row2][column2] != unassigned {
				continue
			}
			matrix[row1][column1] = pair
			matrix[row2][column2] = pair
			break
		}
	}

	return matrix, time.Since(start).Seconds(), nil
}

// deriveSeed concatenates the decimal ordinal of every seed character into
// one integer. The result routinely overflows 64 bits for uuid-shaped seeds,
// so it is reduced modulo MaxInt64 before feeding the generator.
func deriveSeed(seed string) int64 {
	digits := ""
	for _, r := range seed {
		digits += fmt.Sprintf("%d", r)
	}
	if digits == "" {
		return 0
	}

	n := new(big.Int)
	n.SetString(digits, 10)
	n.Mod(n, big.NewInt(int64(^uint64(0)>>1)))
	return n.Int64()
}
