package puzzle

import (
	"strings"
	"testing"
)

func TestParse_FormatA(t *testing.T) {
	input := `
ROWS 2
COLS 2
BOARD
RED A2 0 B1 1
BLUE A1 1 B2 0
`
	pz, err := Parse(strings.NewReader(input), DefaultScore)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pz.Initial.Board.Rows() != 2 || pz.Initial.Board.Cols() != 2 {
		t.Fatalf("unexpected board dimensions: %dx%d", pz.Initial.Board.Rows(), pz.Initial.Board.Cols())
	}
	if got := pz.Initial.Board.Get(0, 0); got.Color != 1 || got.Remaining != 1 {
		t.Errorf("Get(0,0) = %+v, want {1 1}", got)
	}
	if got := pz.Initial.Board.Get(1, 0); got.Color != 0 || got.Remaining != 1 {
		t.Errorf("Get(1,0) = %+v, want {0 1}", got)
	}
	if pz.Colors.Name(0) != "RED" || pz.Colors.Name(1) != "BLUE" {
		t.Errorf("colors = %q, %q, want RED, BLUE", pz.Colors.Name(0), pz.Colors.Name(1))
	}
}

func TestParse_FormatB(t *testing.T) {
	input := `
ROWS 2
COLS 1
COLORS
RED 7
BLUE 9
TARGETS 7 9
TILES
A1 9 1
B1 7 1
`
	pz, err := Parse(strings.NewReader(input), DefaultScore)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := pz.Initial.Board.Get(0, 0); got.Color != 1 || got.Remaining != 1 {
		t.Errorf("Get(0,0) = %+v, want {1 1} (BLUE, one move from home)", got)
	}
	if got := pz.Initial.Board.Get(1, 0); got.Color != 0 || got.Remaining != 1 {
		t.Errorf("Get(1,0) = %+v, want {0 1} (RED, one move from home)", got)
	}
}

func TestParse_TrailingMovesApplied(t *testing.T) {
	input := `
ROWS 2
COLS 2
BOARD
RED A2 0 B1 1
BLUE A1 1 B2 0
MOVES
A1-B1
`
	pz, err := Parse(strings.NewReader(input), DefaultScore)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !pz.Initial.IsSolved() {
		t.Errorf("expected MOVES section to produce a solved initial state, got %s", pz.Initial.Board)
	}
	if pz.Initial.MoveCount != 1 {
		t.Errorf("MoveCount = %d, want 1", pz.Initial.MoveCount)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"missing ROWS":       "COLS 2\nBOARD\n",
		"non-integer ROWS":   "ROWS x\nCOLS 2\nBOARD\n",
		"duplicate position":  "ROWS 1\nCOLS 2\nBOARD\nRED A1 0 A1 0\n",
		"out of bounds":       "ROWS 1\nCOLS 1\nBOARD\nRED B1 0\n",
		"tile count mismatch": "ROWS 1\nCOLS 2\nBOARD\nRED A1 0\n",
		"unknown section":     "ROWS 1\nCOLS 1\nFOO\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(input), DefaultScore); err == nil {
				t.Errorf("expected a ParseError, got nil")
			}
		})
	}
}

func TestParse_EmptyFile(t *testing.T) {
	if _, err := Parse(strings.NewReader(""), DefaultScore); err == nil {
		t.Error("expected an error for an empty puzzle file")
	}
}
