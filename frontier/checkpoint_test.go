package frontier

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/gridswap/gridswap/puzzle"
)

func threeByThreeInitial() *puzzle.BoardState {
	grid := make([]puzzle.Tile, 9)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			grid[r*3+c] = puzzle.Tile{Color: uint16((r + c) % 3), Remaining: 1}
		}
	}
	board := puzzle.NewBoard(3, 3, grid)
	return puzzle.NewInitialState(board, puzzle.DefaultScore)
}

func TestSave_WritesInitialAsLiteral(t *testing.T) {
	initial := threeByThreeInitial()
	var buf bytes.Buffer
	if err := Save(&buf, []*puzzle.BoardState{initial}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.Contains(buf.String(), ":INITIAL") {
		t.Errorf("Save() output %q, want a line ending in \":INITIAL\"", buf.String())
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	initial := threeByThreeInitial()
	moves := []puzzle.Move{{R1: 0, C1: 0, R2: 0, C2: 1}, {R1: 1, C1: 0, R2: 2, C2: 0}}
	state := initial
	for _, m := range moves {
		next, err := puzzle.ApplyMove(state, m, puzzle.DefaultScore)
		if err != nil {
			t.Fatalf("ApplyMove: %v", err)
		}
		state = next
	}

	var buf bytes.Buffer
	if err := Save(&buf, []*puzzle.BoardState{initial, state}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var errs []error
	loaded := Load(&buf, initial, puzzle.DefaultScore, func(e error) { errs = append(errs, e) })
	if len(errs) != 0 {
		t.Fatalf("Load reported errors: %v", errs)
	}
	if len(loaded) != 2 {
		t.Fatalf("Load() returned %d states, want 2", len(loaded))
	}
	if loaded[0].Board.String() != initial.Board.String() {
		t.Error("first loaded state did not match the initial board")
	}
	if loaded[1].Board.String() != state.Board.String() {
		t.Error("second loaded state did not replay to the same board")
	}
	if loaded[1].MoveCount != state.MoveCount {
		t.Errorf("MoveCount = %d, want %d", loaded[1].MoveCount, state.MoveCount)
	}
}

func TestLoad_SkipsMalformedLinesWithoutAborting(t *testing.T) {
	initial := threeByThreeInitial()
	input := "garbage-notation\n0:INITIAL\n"
	var errs []error
	loaded := Load(strings.NewReader(input), initial, puzzle.DefaultScore, func(e error) { errs = append(errs, e) })
	if len(errs) != 1 {
		t.Fatalf("expected exactly one reported line error, got %d", len(errs))
	}
	if len(loaded) != 1 {
		t.Fatalf("Load() returned %d states, want 1 (the valid line)", len(loaded))
	}
}

// TestCheckpointRoundTripIsLossless is a property check: for any sequence of
// legal moves applied from the initial state, saving that single resulting
// state and loading it back must reproduce the identical board - the
// invariant the orchestrator's resume feature depends on.
func TestCheckpointRoundTripIsLossless(t *testing.T) {
	Convey("Given boards reached by various move sequences from the initial state", t, func() {
		initial := threeByThreeInitial()
		sequences := [][]puzzle.Move{
			{},
			{{R1: 0, C1: 0, R2: 0, C2: 1}},
			{{R1: 0, C1: 0, R2: 0, C2: 1}, {R1: 1, C1: 1, R2: 2, C2: 1}},
		}

		for _, seq := range sequences {
			state := initial
			ok := true
			for _, m := range seq {
				next, err := puzzle.ApplyMove(state, m, puzzle.DefaultScore)
				if err != nil {
					ok = false
					break
				}
				state = next
			}
			if !ok {
				continue
			}

			Convey("When that state is saved and reloaded", func() {
				var buf bytes.Buffer
				err := Save(&buf, []*puzzle.BoardState{state})
				So(err, ShouldBeNil)

				loaded := Load(&buf, initial, puzzle.DefaultScore, nil)
				So(len(loaded), ShouldEqual, 1)

				Convey("Then the reloaded board matches the original exactly", func() {
					So(loaded[0].Board, ShouldResemble, state.Board)
					So(loaded[0].MoveCount, ShouldEqual, state.MoveCount)
				})
			})
		}
	})
}
