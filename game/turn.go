package game

import "fmt"

// Click is one reported cell coordinate.
type Click struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// ResolvedClick is a click annotated with the pair identifier found at its
// cell. Two resolved clicks form the audit trail of one turn.
type ResolvedClick struct {
	Click
	Card int `json:"card"`
}

// Outcome is the result of feeding one click into a round.
type Outcome struct {
	// Buffered is true when the click was the first of a pair and is now
	// waiting for its partner. No turn exists yet in that case.
	Buffered bool
	// Match is valid only when Buffered is false.
	Match  bool
	Clicks [2]ResolvedClick
}

// ResolveClick advances a round by one click. With no pending click the new
// click is buffered and no turn is produced. With a pending click the two
// clicks form one turn candidate: both cells are resolved against the
// playfield and the turn matches iff they carry the same pair identifier.
// Validation failures leave the pending click untouched.
func ResolveClick(field Playfield, pending *Click, next Click) (*Outcome, error) {
	if _, err := field.CardAt(next); err != nil {
		return nil, err
	}

	if pending == nil {
		return &Outcome{Buffered: true}, nil
	}

	if pending.Row == next.Row && pending.Column == next.Column {
		return nil, fmt.Errorf("%w: row=%d column=%d clicked twice", ErrCorruptMove, next.Row, next.Column)
	}

	card1, err := field.CardAt(*pending)
	if err != nil {
		return nil, err
	}
	card2, err := field.CardAt(next)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Match: card1 == card2,
		Clicks: [2]ResolvedClick{
			{Click: *pending, Card: card1},
			{Click: next, Card: card2},
		},
	}, nil
}
