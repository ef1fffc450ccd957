package puzzle

import "fmt"

// ScoreFunc computes a non-negative "distance to solution" estimate for a
// board. Lower is better. It is a knob (spec.md §4.5): the core must behave
// correctly — never incorrectly prune — for any non-negative ScoreFunc,
// including one that always returns zero.
type ScoreFunc func(Board) int

// DefaultScore is a reasonable, sound heuristic: the total Remaining across
// every tile whose color does not match its current row. Every such tile
// must spend all of its Remaining, and each swap spends one unit from each
// of two tiles, so the score never exceeds twice the moves still needed (a
// board one swap from solved can score 2). It is deliberately not exact —
// spec.md §4.5 only requires it to prioritize, never to reject.
func DefaultScore(b Board) int {
	score := 0
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			t := b.Get(r, c)
			if int(t.Color) != r {
				score += int(t.Remaining)
			}
		}
	}
	return score
}

// ZeroScore is the trivial score function (always 0), used to confirm the
// engine's correctness is independent of the heuristic (spec.md §9).
func ZeroScore(Board) int { return 0 }

// InvariantError marks a violated runtime invariant — e.g. ApplyMove called
// against ineligible endpoints. spec.md §7 treats these as logic bugs: fatal
// to the worker that hits one, never a recoverable/skippable condition.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return e.Msg }

// BoardState is a node in the search graph: a board plus the history link
// that produced it (spec.md §3). BoardStates are never mutated after
// construction; the Prev chain is a shared-immutable singly linked list —
// many sibling states may reference the same tail, released by Go's
// garbage collector once the last reference drops.
type BoardState struct {
	Board          Board
	LastMove       *Move       // nil for the initial state
	Prev           *BoardState // nil for the initial state
	RemainingMoves int         // cached: sum(tile.Remaining)/2
	Score          int         // cached heuristic, see ScoreFunc
	MoveCount      int         // depth: number of moves applied since the initial state
}

// NewInitialState builds the root BoardState for board, establishing
// RemainingMoves from scratch (spec.md §3: "established from scratch on the
// initial state").
func NewInitialState(board Board, score ScoreFunc) *BoardState {
	return &BoardState{
		Board:          board,
		RemainingMoves: board.TotalRemaining() / 2,
		Score:          score(board),
	}
}

// ApplyMove produces the successor BoardState reached from prev by applying
// m. It returns an *InvariantError if m is not well-formed or either
// endpoint has no remaining moves — prev.Board.Swap enforces the same
// precondition and would panic, so ApplyMove checks first and turns the
// violation into the typed result spec.md §7 calls for, reserving the panic
// path for a truly unreachable call to Swap outside this function.
func ApplyMove(prev *BoardState, m Move, score ScoreFunc) (*BoardState, error) {
	if !prev.Board.Eligible(m) {
		return nil, &InvariantError{Msg: fmt.Sprintf(
			"apply_move: ineligible move %s from state with remaining_moves=%d",
			m.Notation(), prev.RemainingMoves)}
	}
	next := prev.Board.Swap(m.R1, m.C1, m.R2, m.C2)
	mv := m
	return &BoardState{
		Board:          next,
		LastMove:       &mv,
		Prev:           prev,
		RemainingMoves: prev.RemainingMoves - 1,
		Score:          score(next),
		MoveCount:      prev.MoveCount + 1,
	}, nil
}

// IsSolved reports whether s is a solved state: RemainingMoves == 0 is the
// O(1) gate (spec.md §3's required check-order) before the full-grid scan.
func (s *BoardState) IsSolved() bool {
	return s.RemainingMoves == 0 && s.Board.IsSolved()
}

// AffectedRows returns the set of rows touched by s's last move: {r1} for a
// horizontal move, {r1, r2} for a vertical one. For the initial state
// (LastMove == nil) it returns every row on the board, matching spec.md
// §4.3's "must fall back to a full-board scan on the initial state" rule.
func (s *BoardState) AffectedRows() []int {
	if s.LastMove == nil {
		rows := make([]int, s.Board.Rows())
		for r := range rows {
			rows[r] = r
		}
		return rows
	}
	m := s.LastMove
	if m.R1 == m.R2 {
		return []int{m.R1}
	}
	return []int{m.R1, m.R2}
}

// Endpoints returns the board positions touched by s's last move, or every
// cell on the board for the initial state (same fallback rule as
// AffectedRows).
func (s *BoardState) Endpoints() [][2]int {
	if s.LastMove == nil {
		cells := make([][2]int, 0, s.Board.Rows()*s.Board.Cols())
		for r := 0; r < s.Board.Rows(); r++ {
			for c := 0; c < s.Board.Cols(); c++ {
				cells = append(cells, [2]int{r, c})
			}
		}
		return cells
	}
	m := s.LastMove
	return [][2]int{{m.R1, m.C1}, {m.R2, m.C2}}
}

// MoveChain walks the Prev chain back to the root and returns the ordered
// list of moves that produced s, root-first.
func (s *BoardState) MoveChain() []Move {
	var moves []Move
	for cur := s; cur != nil && cur.LastMove != nil; cur = cur.Prev {
		moves = append(moves, *cur.LastMove)
	}
	for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
		moves[i], moves[j] = moves[j], moves[i]
	}
	return moves
}

// Root walks the Prev chain back to the initial state.
func (s *BoardState) Root() *BoardState {
	cur := s
	for cur.Prev != nil {
		cur = cur.Prev
	}
	return cur
}
