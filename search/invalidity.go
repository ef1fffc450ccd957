package search

import "github.com/gridswap/gridswap/puzzle"

// Predicate is a pure function of a state that reports whether the state is
// provably unsolvable. False positives are fatal (they'd prune a reachable
// solution); false negatives only waste work (spec.md §4.3).
type Predicate struct {
	Name string
	Test func(*puzzle.BoardState) bool
}

// Suite is the ordered chain of invalidity predicates, evaluated
// fastest/most-effective first; the first positive result wins and is
// attributed to that predicate for statistics (spec.md §4.3). The suite
// collapses to a fixed, stateless dispatch table built once — no
// object-identity singletons are needed in Go the way the original's
// predicate objects were (spec.md §9).
var Suite = []Predicate{
	{Name: "BlockedSwap", Test: blockedSwap},
	{Name: "StuckTiles", Test: stuckTiles},
	{Name: "IsolatedTile", Test: isolatedTile},
	{Name: "Stalemate", Test: stalemate},
	{Name: "WrongRowZeroMoves", Test: wrongRowZeroMoves},
}

// Classify runs the suite in order and returns the first predicate that
// marks s invalid, or ("", false) if none do.
func Classify(s *puzzle.BoardState) (predicate string, invalid bool) {
	for _, p := range Suite {
		if p.Test(s) {
			return p.Name, true
		}
	}
	return "", false
}

// blockedSwap implements spec.md §4.3.1, scoped to the endpoints of the
// last move (or every tile, for the initial state — see
// BoardState.Endpoints).
func blockedSwap(s *puzzle.BoardState) bool {
	b := s.Board
	for _, p := range s.Endpoints() {
		r, c := p[0], p[1]
		t := b.Get(r, c)

		// Blocked side: a tile with one move left, not yet home, whose
		// target-row blocker in this column has no moves of its own can
		// never swap home.
		if t.Remaining == 1 && int(t.Color) != r {
			if int(t.Color) < b.Rows() {
				blocker := b.Get(int(t.Color), c)
				if blocker.Remaining < 1 {
					return true
				}
			}
		}

		// Blocking side: a tile with zero moves left permanently occupies
		// (r,c); if some tile elsewhere in column c needs row r (color==r)
		// and has exactly one move left, it can only reach row r via this
		// column, and this fixed tile blocks it forever.
		if t.Remaining == 0 {
			for r2 := 0; r2 < b.Rows(); r2++ {
				if r2 == r {
					continue
				}
				other := b.Get(r2, c)
				if other.Remaining == 1 && int(other.Color) == r {
					return true
				}
			}
		}
	}
	return false
}

// stuckTiles implements spec.md §4.3.2, the row-local parity predicate (the
// Open Question is resolved in favor of this variant — see DESIGN.md).
// Once every tile in a row is color-aligned, tiles in that row can only
// swap amongst themselves, each swap reducing the row's Remaining total by
// exactly 2; an odd total can never reach zero.
func stuckTiles(s *puzzle.BoardState) bool {
	b := s.Board
	for _, r := range s.AffectedRows() {
		aligned := true
		sum := 0
		maxRemaining := true
		for c := 0; c < b.Cols(); c++ {
			t := b.Get(r, c)
			if int(t.Color) != r {
				aligned = false
				break
			}
			if t.Remaining > 2 {
				maxRemaining = false
			}
			sum += int(t.Remaining)
		}
		if aligned && maxRemaining && sum%2 == 1 {
			return true
		}
	}
	return false
}

// isolatedTile implements spec.md §4.3.3: an endpoint tile with moves left
// but no partner (nothing else with Remaining > 0) in either its row or its
// column has no legal swap and is permanently stuck.
func isolatedTile(s *puzzle.BoardState) bool {
	b := s.Board
	for _, p := range s.Endpoints() {
		r, c := p[0], p[1]
		t := b.Get(r, c)
		if t.Remaining == 0 {
			continue
		}
		rowPartner := false
		for c2 := 0; c2 < b.Cols(); c2++ {
			if c2 != c && b.Get(r, c2).Remaining > 0 {
				rowPartner = true
				break
			}
		}
		if rowPartner {
			continue
		}
		colPartner := false
		for r2 := 0; r2 < b.Rows(); r2++ {
			if r2 != r && b.Get(r2, c).Remaining > 0 {
				colPartner = true
				break
			}
		}
		if !colPartner {
			return true
		}
	}
	return false
}

// stalemate implements spec.md §4.3.4: a global check, independent of the
// last move. If no row and no column has at least two tiles with moves
// left, no move of any kind is possible.
func stalemate(s *puzzle.BoardState) bool {
	if s.IsSolved() {
		return false
	}
	b := s.Board
	for r := 0; r < b.Rows(); r++ {
		count := 0
		for c := 0; c < b.Cols(); c++ {
			if b.Get(r, c).Remaining > 0 {
				count++
				if count >= 2 {
					return false
				}
			}
		}
	}
	for c := 0; c < b.Cols(); c++ {
		count := 0
		for r := 0; r < b.Rows(); r++ {
			if b.Get(r, c).Remaining > 0 {
				count++
				if count >= 2 {
					return false
				}
			}
		}
	}
	return true
}

// wrongRowZeroMoves implements spec.md §4.3.5: an endpoint tile with no
// moves left that isn't already home is permanently misplaced.
func wrongRowZeroMoves(s *puzzle.BoardState) bool {
	b := s.Board
	for _, p := range s.Endpoints() {
		r, c := p[0], p[1]
		t := b.Get(r, c)
		if t.Remaining == 0 && int(t.Color) != r {
			return true
		}
	}
	return false
}
