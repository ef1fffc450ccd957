package puzzle

import (
	"fmt"
	"strings"
)

// Board is a fixed-size R×C grid of tiles. R equals the number of distinct
// colors; by convention the target color of row r is r, so "tile in correct
// row" is equivalent to "tile color equals row index". Boards are logically
// immutable after construction — Swap produces a new Board rather than
// mutating the receiver.
type Board struct {
	rows, cols int
	grid       []Tile // row-major, length rows*cols
}

// NewBoard builds a Board from a row-major slice of tiles. It does not
// validate tile placement against the "target color == row index"
// convention; callers that parse puzzle files are responsible for that.
func NewBoard(rows, cols int, grid []Tile) Board {
	if len(grid) != rows*cols {
		panic(fmt.Sprintf("grid length %d does not match %d x %d", len(grid), rows, cols))
	}
	cp := make([]Tile, len(grid))
	copy(cp, grid)
	return Board{rows: rows, cols: cols, grid: cp}
}

// Rows reports the board's row count.
func (b Board) Rows() int { return b.rows }

// Cols reports the board's column count.
func (b Board) Cols() int { return b.cols }

func (b Board) index(r, c int) int { return r*b.cols + c }

// Get returns the tile at (r,c).
func (b Board) Get(r, c int) Tile {
	return b.grid[b.index(r, c)]
}

// inBounds reports whether (r,c) is a valid cell on this board.
func (b Board) inBounds(r, c int) bool {
	return r >= 0 && r < b.rows && c >= 0 && c < b.cols
}

// Eligible reports whether the tiles at both endpoints of m have at least
// one remaining move each — the precondition Swap requires.
func (b Board) Eligible(m Move) bool {
	if !m.WellFormed(b.rows, b.cols) {
		return false
	}
	return b.Get(m.R1, m.C1).Remaining >= 1 && b.Get(m.R2, m.C2).Remaining >= 1
}

// Swap produces a new board identical to b except that the tiles at
// (r1,c1) and (r2,c2) are exchanged, and each of the two exchanged tiles has
// its Remaining decremented by one. The move must be well-formed and both
// endpoints must have Remaining >= 1 (see Eligible); Swap panics otherwise —
// a violated precondition here is the runtime-invariant class of error
// spec.md §7 calls out as a worker-fatal logic bug, not a recoverable one.
func (b Board) Swap(r1, c1, r2, c2 int) Board {
	m := Move{R1: r1, C1: c1, R2: r2, C2: c2}
	if !b.Eligible(m) {
		panic(fmt.Sprintf("swap called on ineligible move %s", m.Notation()))
	}
	grid := make([]Tile, len(b.grid))
	copy(grid, b.grid)

	i1, i2 := b.index(r1, c1), b.index(r2, c2)
	t1, t2 := grid[i1], grid[i2]
	grid[i1] = t2.Decremented()
	grid[i2] = t1.Decremented()

	return Board{rows: b.rows, cols: b.cols, grid: grid}
}

// ReverseSwap is the literal inverse of Swap: given the board Swap(r1,c1,
// r2,c2) would have produced, ReverseSwap(r1,c1,r2,c2) recovers the board
// it was produced from. It is how a puzzle generator builds a solvable
// board by reverse-scrambling from a solved one (spec.md §1) — generation
// cannot go through Swap itself, since Swap requires Remaining >= 1 at both
// endpoints and a solved board has none.
func (b Board) ReverseSwap(r1, c1, r2, c2 int) Board {
	m := Move{R1: r1, C1: c1, R2: r2, C2: c2}
	if !m.WellFormed(b.rows, b.cols) {
		panic(fmt.Sprintf("reverse swap called on ill-formed move %s", m.Notation()))
	}
	grid := make([]Tile, len(b.grid))
	copy(grid, b.grid)

	i1, i2 := b.index(r1, c1), b.index(r2, c2)
	t1, t2 := grid[i1], grid[i2]
	grid[i1] = Tile{Color: t2.Color, Remaining: t2.Remaining + 1}
	grid[i2] = Tile{Color: t1.Color, Remaining: t1.Remaining + 1}

	return Board{rows: b.rows, cols: b.cols, grid: grid}
}

// IsSolved reports whether every cell holds a tile whose color equals its
// row index and whose Remaining is zero. Only meaningful to call once the
// cached remaining_moves total on the owning BoardState is zero (the O(1)
// gate spec.md §3 requires before a full-grid scan).
func (b Board) IsSolved() bool {
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			t := b.Get(r, c)
			if int(t.Color) != r || t.Remaining != 0 {
				return false
			}
		}
	}
	return true
}

// TotalRemaining sums Remaining across every tile on the board.
func (b Board) TotalRemaining() int {
	total := 0
	for _, t := range b.grid {
		total += int(t.Remaining)
	}
	return total
}

func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%s", b.Get(r, c))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Move is a swap of two tiles in the same row or column.
type Move struct {
	R1, C1, R2, C2 int
}

// WellFormed reports whether m is same-row or same-column and both
// endpoints lie within an r-row, c-col board.
func (m Move) WellFormed(rows, cols int) bool {
	if !(m.R1 == m.R2 || m.C1 == m.C2) {
		return false
	}
	inBounds := func(r, c int) bool { return r >= 0 && r < rows && c >= 0 && c < cols }
	return inBounds(m.R1, m.C1) && inBounds(m.R2, m.C2)
}

// Size is the sum of the two endpoint tiles' Remaining values on board b,
// used by the move generator's optional size-ordering policy (spec.md
// §4.2.6).
func (m Move) Size(b Board) int {
	return int(b.Get(m.R1, m.C1).Remaining) + int(b.Get(m.R2, m.C2).Remaining)
}

var rowLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func rowLetter(r int) string {
	if r < 26 {
		return string(rowLetters[r])
	}
	// beyond 26 rows, fall back to a base-26-ish multi letter code so
	// notation stays parseable; boards this tall are not the common case.
	s := ""
	for r >= 0 {
		s = string(rowLetters[r%26]) + s
		r = r/26 - 1
		if r < 0 {
			break
		}
	}
	return s
}

func rowIndex(letter string) (int, bool) {
	if letter == "" {
		return 0, false
	}
	idx := 0
	for _, ch := range letter {
		pos := strings.IndexRune(rowLetters, ch)
		if pos < 0 {
			return 0, false
		}
		idx = idx*26 + pos + 1
	}
	return idx - 1, true
}

// Notation renders m in canonical form "<RowLetter><ColNumber>-<RowLetter><ColNumber>",
// row A=0, B=1, ..., columns 1-based.
func (m Move) Notation() string {
	return fmt.Sprintf("%s%d-%s%d", rowLetter(m.R1), m.C1+1, rowLetter(m.R2), m.C2+1)
}

// ParseMoveNotation parses a canonical move notation string back into a
// Move. It returns an error on malformed notation; it does not validate the
// move against any particular board (callers apply it and let Eligible /
// Swap reject an inapplicable move).
func ParseMoveNotation(s string) (Move, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Move{}, fmt.Errorf("malformed move notation %q: expected <pos>-<pos>", s)
	}
	r1, c1, err := parsePosition(parts[0])
	if err != nil {
		return Move{}, fmt.Errorf("malformed move notation %q: %w", s, err)
	}
	r2, c2, err := parsePosition(parts[1])
	if err != nil {
		return Move{}, fmt.Errorf("malformed move notation %q: %w", s, err)
	}
	return Move{R1: r1, C1: c1, R2: r2, C2: c2}, nil
}

// parsePosition parses a "<letter><digit...>" cell position, row A=0, B=1,
// ..., columns 1-based (converted to 0-based in the return value).
func parsePosition(s string) (row, col int, err error) {
	i := 0
	for i < len(s) && ((s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z')) {
		i++
	}
	if i == 0 || i == len(s) {
		return 0, 0, fmt.Errorf("malformed position %q", s)
	}
	row, ok := rowIndex(strings.ToUpper(s[:i]))
	if !ok {
		return 0, 0, fmt.Errorf("malformed position %q", s)
	}
	colNum := 0
	for _, ch := range s[i:] {
		if ch < '0' || ch > '9' {
			return 0, 0, fmt.Errorf("malformed position %q", s)
		}
		colNum = colNum*10 + int(ch-'0')
	}
	if colNum < 1 {
		return 0, 0, fmt.Errorf("malformed position %q: column must be >= 1", s)
	}
	return row, colNum - 1, nil
}
