// Package puzzle holds the immutable value types of a tile-rearrangement
// puzzle: Tile, Board, Move, and the BoardState search-graph node built on
// top of them.
package puzzle

import "fmt"

// Tile is a single game piece: a color and a remaining-moves budget. Two
// tiles are equal iff both fields match.
type Tile struct {
	Color     uint16
	Remaining uint8
}

// Decremented returns a tile identical to t but with Remaining reduced by
// one. It panics if t has no moves left; callers must check Remaining >= 1
// before calling it (swap's eligibility check does this).
func (t Tile) Decremented() Tile {
	if t.Remaining == 0 {
		panic(fmt.Sprintf("decremented a tile with no remaining moves: %+v", t))
	}
	return Tile{Color: t.Color, Remaining: t.Remaining - 1}
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d", t.Color, t.Remaining)
}
