// Package search holds the move generator and invalidity (pruning) suite
// that together decide which successor states a worker explores from a
// given BoardState (spec.md §4.2, §4.3).
package search

import (
	"sort"

	"github.com/gridswap/gridswap/puzzle"
)

// Order is the optional move-ordering policy a generator can be configured
// with (spec.md §4.2.6). It changes exploration order only, never
// reachability.
type Order int

const (
	OrderNone Order = iota
	OrderSmallestFirst
	OrderLargestFirst
)

// Generator produces the filtered successor-move list for a state.
type Generator struct {
	Order Order
}

// NewGenerator builds a Generator with the given ordering policy.
func NewGenerator(order Order) *Generator {
	return &Generator{Order: order}
}

// Generate returns the ordered list of moves to explore from s, per
// spec.md §4.2: eligibility + last-move filtering, with the horizontal and
// vertical perfect-swap short-circuits taking priority over full
// enumeration.
func (g *Generator) Generate(s *puzzle.BoardState) []puzzle.Move {
	b := s.Board

	if m, ok := horizontalPerfectSwap(b); ok {
		return []puzzle.Move{m}
	}
	if m, ok := verticalPerfectSwap(b); ok {
		return []puzzle.Move{m}
	}

	moves := enumerate(b)
	g.order(moves, b)
	return moves
}

// horizontalPerfectSwap implements spec.md §4.2.2. A row r that is fully
// color-aligned, with every Remaining in {0,1} and an even count (>= 2) of
// Remaining==1 tiles, can only finish by pairing its 1-move tiles within the
// row — any pair is equivalent, so generation short-circuits to one move.
//
// During the scan, a tile whose color c differs from its row r disqualifies
// both row r (it's missing its own correct tile) and row c (c is the row
// that tile belongs in, and it isn't there) from the check.
func horizontalPerfectSwap(b puzzle.Board) (puzzle.Move, bool) {
	rows, cols := b.Rows(), b.Cols()
	disqualified := make([]bool, rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t := b.Get(r, c)
			if int(t.Color) != r {
				disqualified[r] = true
				if int(t.Color) < rows {
					disqualified[t.Color] = true
				}
			}
		}
	}

	for r := 0; r < rows; r++ {
		if disqualified[r] {
			continue
		}
		var onesCols []int
		allZeroOrOne := true
		for c := 0; c < cols; c++ {
			t := b.Get(r, c)
			if t.Remaining > 1 {
				allZeroOrOne = false
				break
			}
			if t.Remaining == 1 {
				onesCols = append(onesCols, c)
			}
		}
		if !allZeroOrOne {
			continue
		}
		if len(onesCols) >= 2 && len(onesCols)%2 == 0 {
			return puzzle.Move{R1: r, C1: onesCols[0], R2: r, C2: onesCols[1]}, true
		}
	}
	return puzzle.Move{}, false
}

// verticalPerfectSwap implements spec.md §4.2.3: a column pair (r1,c) and
// (r2,c) where both tiles have Remaining==1 and each holds exactly the
// other's target color lands both home with zero moves left in a single
// swap — provably optimal, so generation short-circuits to it.
func verticalPerfectSwap(b puzzle.Board) (puzzle.Move, bool) {
	rows, cols := b.Rows(), b.Cols()
	for c := 0; c < cols; c++ {
		for r1 := 0; r1 < rows; r1++ {
			t1 := b.Get(r1, c)
			if t1.Remaining != 1 {
				continue
			}
			for r2 := r1 + 1; r2 < rows; r2++ {
				t2 := b.Get(r2, c)
				if t2.Remaining != 1 {
					continue
				}
				if int(t1.Color) == r2 && int(t2.Color) == r1 {
					return puzzle.Move{R1: r1, C1: c, R2: r2, C2: c}, true
				}
			}
		}
	}
	return puzzle.Move{}, false
}

// enumerate produces every eligible, last-move-filtered same-row and
// same-column swap (spec.md §4.2.1, §4.2.4), duplicate-free by requiring
// c1 < c2 for row pairs and r1 < r2 for column pairs.
func enumerate(b puzzle.Board) []puzzle.Move {
	var moves []puzzle.Move
	rows, cols := b.Rows(), b.Cols()

	for r := 0; r < rows; r++ {
		for c1 := 0; c1 < cols; c1++ {
			t1 := b.Get(r, c1)
			if t1.Remaining < 1 {
				continue
			}
			for c2 := c1 + 1; c2 < cols; c2++ {
				t2 := b.Get(r, c2)
				if t2.Remaining < 1 {
					continue
				}
				m := puzzle.Move{R1: r, C1: c1, R2: r, C2: c2}
				if lastMoveFilterOK(t1, t2, m) {
					moves = append(moves, m)
				}
			}
		}
	}

	for c := 0; c < cols; c++ {
		for r1 := 0; r1 < rows; r1++ {
			t1 := b.Get(r1, c)
			if t1.Remaining < 1 {
				continue
			}
			for r2 := r1 + 1; r2 < rows; r2++ {
				t2 := b.Get(r2, c)
				if t2.Remaining < 1 {
					continue
				}
				m := puzzle.Move{R1: r1, C1: c, R2: r2, C2: c}
				if lastMoveFilterOK(t1, t2, m) {
					moves = append(moves, m)
				}
			}
		}
	}

	return moves
}

// lastMoveFilterOK implements spec.md §4.2.4: a tile spending its last move
// must land in its own target row.
func lastMoveFilterOK(t1, t2 puzzle.Tile, m puzzle.Move) bool {
	if t1.Remaining == 1 && int(t1.Color) != m.R2 {
		return false
	}
	if t2.Remaining == 1 && int(t2.Color) != m.R1 {
		return false
	}
	return true
}

func (g *Generator) order(moves []puzzle.Move, b puzzle.Board) {
	switch g.Order {
	case OrderSmallestFirst:
		sort.SliceStable(moves, func(i, j int) bool {
			return moves[i].Size(b) < moves[j].Size(b)
		})
	case OrderLargestFirst:
		sort.SliceStable(moves, func(i, j int) bool {
			return moves[i].Size(b) > moves[j].Size(b)
		})
	}
}
