// Package generate builds solvable puzzles by reverse-scrambling a solved
// board — the "puzzle generation" collaborator spec.md §1 names as
// peripheral but does not itself specify an API for (supplemented here per
// SPEC_FULL.md §12, grounded on spec.md §8's "3x3, 9 moves... seed fixed"
// scenario).
package generate

import (
	"fmt"
	"math/rand"

	"github.com/gridswap/gridswap/puzzle"
)

// Scramble builds a solved rows x cols board (tile color == row index,
// Remaining 0 everywhere) and applies `moves` random well-formed reverse
// swaps to it (puzzle.Board.ReverseSwap). Replaying the returned solution
// in order, from the returned board, reaches the solved board in exactly
// `moves` moves — so the puzzle this produces is always solvable.
func Scramble(rows, cols, moves int, seed int64) (puzzle.Board, []puzzle.Move, error) {
	if rows < 1 || cols < 1 {
		return puzzle.Board{}, nil, fmt.Errorf("rows and cols must be positive")
	}
	if moves > 0 && rows*cols < 2 {
		return puzzle.Board{}, nil, fmt.Errorf("a board with fewer than 2 cells has no legal move")
	}

	grid := make([]puzzle.Tile, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			grid[r*cols+c] = puzzle.Tile{Color: uint16(r), Remaining: 0}
		}
	}
	board := puzzle.NewBoard(rows, cols, grid)

	rng := rand.New(rand.NewSource(seed))
	scrambleMoves := make([]puzzle.Move, 0, moves)
	for i := 0; i < moves; i++ {
		m := randomWellFormedMove(rng, rows, cols)
		board = board.ReverseSwap(m.R1, m.C1, m.R2, m.C2)
		scrambleMoves = append(scrambleMoves, m)
	}

	// The scramble built the board by walking forward from solved through
	// ReverseSwap steps; solving it is precisely those steps' literal Swaps,
	// applied newest-reverse-step-first, i.e. in reverse recording order.
	solution := make([]puzzle.Move, len(scrambleMoves))
	for i, m := range scrambleMoves {
		solution[len(scrambleMoves)-1-i] = m
	}

	return board, solution, nil
}

// randomWellFormedMove picks a uniformly random same-row or same-column
// pair of distinct positions, falling back to whichever axis has room when
// the board is a single row or a single column.
func randomWellFormedMove(rng *rand.Rand, rows, cols int) puzzle.Move {
	canRow := cols >= 2
	canCol := rows >= 2
	useRow := canRow && (!canCol || rng.Intn(2) == 0)

	if useRow {
		r := rng.Intn(rows)
		c1 := rng.Intn(cols)
		c2 := rng.Intn(cols - 1)
		if c2 >= c1 {
			c2++
		}
		return puzzle.Move{R1: r, C1: c1, R2: r, C2: c2}
	}

	c := rng.Intn(cols)
	r1 := rng.Intn(rows)
	r2 := rng.Intn(rows - 1)
	if r2 >= r1 {
		r2++
	}
	return puzzle.Move{R1: r1, C1: c, R2: r2, C2: c}
}

// DefaultColorNames returns placeholder color names ("COLOR0", "COLOR1",
// ...) for a generated puzzle that has no natural naming of its own.
func DefaultColorNames(rows int) []string {
	names := make([]string, rows)
	for i := range names {
		names[i] = fmt.Sprintf("COLOR%d", i)
	}
	return names
}
