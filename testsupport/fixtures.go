// Package testsupport holds small fixture builders for puzzle boards. The
// module's test files build their own boards and do not import it.
package testsupport

import "github.com/gridswap/gridswap/puzzle"

// SolvedBoard builds a rows x cols board with every tile already home and
// Remaining zero.
func SolvedBoard(rows, cols int) puzzle.Board {
	grid := make([]puzzle.Tile, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			grid[r*cols+c] = puzzle.Tile{Color: uint16(r), Remaining: 0}
		}
	}
	return puzzle.NewBoard(rows, cols, grid)
}

// TwoByTwoOneSwap builds the trivial 2x2 puzzle: two tiles swapped into each
// other's row, one move each from home, solvable in exactly one move.
func TwoByTwoOneSwap() puzzle.Board {
	grid := []puzzle.Tile{
		{Color: 1, Remaining: 1}, {Color: 0, Remaining: 0},
		{Color: 0, Remaining: 1}, {Color: 1, Remaining: 0},
	}
	return puzzle.NewBoard(2, 2, grid)
}

// ParityDeadlockBoard builds a 1x4 board whose single row is all color 0
// with Remaining (1,1,1,0): every swap within the row lowers its total by 2,
// so the odd total of 3 can never reach zero — a board StuckTiles classifies
// as invalid.
func ParityDeadlockBoard() puzzle.Board {
	grid := []puzzle.Tile{
		{Color: 0, Remaining: 1}, {Color: 0, Remaining: 1},
		{Color: 0, Remaining: 1}, {Color: 0, Remaining: 0},
	}
	return puzzle.NewBoard(1, 4, grid)
}
