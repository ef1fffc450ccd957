package search

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/gridswap/gridswap/puzzle"
)

func TestClassify_WrongRowZeroMoves(t *testing.T) {
	// (0,0) wants color 0 but holds color 1 with no moves left: permanently
	// misplaced. Column 1 carries a genuinely movable pair so the board is
	// not also a stalemate, keeping WrongRowZeroMoves the first predicate
	// in suite order to fire.
	grid := []puzzle.Tile{
		{Color: 1, Remaining: 0}, {Color: 1, Remaining: 1}, {Color: 0, Remaining: 0},
		{Color: 1, Remaining: 0}, {Color: 0, Remaining: 1}, {Color: 1, Remaining: 0},
	}
	board := puzzle.NewBoard(2, 3, grid)
	state := puzzle.NewInitialState(board, puzzle.ZeroScore)

	predicate, invalid := Classify(state)
	if !invalid {
		t.Fatal("expected Classify to flag this board invalid")
	}
	if predicate != "WrongRowZeroMoves" {
		t.Errorf("predicate = %q, want WrongRowZeroMoves", predicate)
	}
}

func TestClassify_StuckTilesOddParity(t *testing.T) {
	// row aligned by color, but total remaining in the row is odd: every
	// swap within the row costs exactly 2, so it can never reach zero.
	grid := []puzzle.Tile{
		{Color: 0, Remaining: 1}, {Color: 0, Remaining: 2}, {Color: 0, Remaining: 0},
	}
	board := puzzle.NewBoard(1, 3, grid)
	state := puzzle.NewInitialState(board, puzzle.ZeroScore)

	predicate, invalid := Classify(state)
	if !invalid || predicate != "StuckTiles" {
		t.Errorf("Classify() = (%q, %v), want (StuckTiles, true)", predicate, invalid)
	}
}

func TestClassify_StalemateNoMovablePair(t *testing.T) {
	// exactly one tile on the board has moves left; no legal swap exists
	// anywhere on the board.
	grid := []puzzle.Tile{
		{Color: 1, Remaining: 1}, {Color: 1, Remaining: 0},
		{Color: 0, Remaining: 0}, {Color: 0, Remaining: 0},
	}
	board := puzzle.NewBoard(2, 2, grid)
	state := puzzle.NewInitialState(board, puzzle.ZeroScore)

	predicate, invalid := Classify(state)
	if !invalid {
		t.Fatal("expected a stalemate board to be classified invalid")
	}
	t.Logf("classified by %s", predicate)
}

func TestClassify_SolvedBoardIsNeverInvalid(t *testing.T) {
	grid := []puzzle.Tile{
		{Color: 0, Remaining: 0}, {Color: 1, Remaining: 0},
	}
	board := puzzle.NewBoard(2, 1, grid)
	state := puzzle.NewInitialState(board, puzzle.ZeroScore)

	if _, invalid := Classify(state); invalid {
		t.Error("a solved board must never be classified invalid")
	}
}

// TestPruningNeverRejectsASolvedSuccessor is a property check: for every
// move the generator proposes from a board, if applying it yields a solved
// state, Classify must never call that state invalid - guarding against a
// predicate that would prune a reachable solution.
func TestPruningNeverRejectsASolvedSuccessor(t *testing.T) {
	Convey("Given boards at varying stages of completion", t, func() {
		boards := []puzzle.Board{
			puzzle.NewBoard(2, 2, []puzzle.Tile{
				{Color: 1, Remaining: 1}, {Color: 0, Remaining: 0},
				{Color: 0, Remaining: 1}, {Color: 1, Remaining: 0},
			}),
			puzzle.NewBoard(3, 2, []puzzle.Tile{
				{Color: 1, Remaining: 1}, {Color: 2, Remaining: 1},
				{Color: 0, Remaining: 1}, {Color: 2, Remaining: 1},
				{Color: 1, Remaining: 1}, {Color: 0, Remaining: 1},
			}),
		}
		gen := NewGenerator(OrderNone)

		for _, board := range boards {
			state := puzzle.NewInitialState(board, puzzle.ZeroScore)
			Convey("When the generator proposes a move from that board", func() {
				moves := gen.Generate(state)
				for _, m := range moves {
					next, err := puzzle.ApplyMove(state, m, puzzle.ZeroScore)
					So(err, ShouldBeNil)
					Convey("Then a solved successor must never be pruned", func() {
						if next.IsSolved() {
							_, invalid := Classify(next)
							So(invalid, ShouldBeFalse)
						}
					})
				}
			})
		}
	})
}
