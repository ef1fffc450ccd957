package puzzle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ParseError reports a malformed puzzle file: which line, and why. Parsing
// fails fast on the first one encountered (spec.md §7: "fail fast with a
// diagnostic, exit code 2").
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

// Puzzle is the result of parsing a puzzle file: the initial BoardState and
// the color table used to render it back out.
type Puzzle struct {
	Initial *BoardState
	Colors  *ColorTable
}

var positionPattern = regexp.MustCompile(`^[A-Za-z]+[0-9]+$`)

type rawLine struct {
	num    int
	fields []string
}

// Parse reads a puzzle file (either Format A "BOARD" or legacy Format B
// "COLORS"/"TARGETS"/"TILES", spec.md §6) and returns its initial state.
func Parse(r io.Reader, score ScoreFunc) (*Puzzle, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &ParseError{Reason: "empty puzzle file"}
	}

	idx := 0
	rows, err := expectKeyValue(lines, &idx, "ROWS")
	if err != nil {
		return nil, err
	}
	cols, err := expectKeyValue(lines, &idx, "COLS")
	if err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 {
		return nil, &ParseError{Reason: "ROWS and COLS must be positive"}
	}
	if idx >= len(lines) {
		return nil, &ParseError{Reason: "missing BOARD or COLORS section"}
	}

	switch strings.ToUpper(lines[idx].fields[0]) {
	case "BOARD":
		return parseFormatA(lines, idx, rows, cols, score)
	case "COLORS":
		return parseFormatB(lines, idx, rows, cols, score)
	default:
		return nil, &ParseError{Line: lines[idx].num, Reason: "expected BOARD or COLORS section"}
	}
}

func readLines(r io.Reader) ([]rawLine, error) {
	scanner := bufio.NewScanner(r)
	var lines []rawLine
	n := 0
	for scanner.Scan() {
		n++
		text := scanner.Text()
		if hash := strings.IndexByte(text, '#'); hash >= 0 {
			text = text[:hash]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, rawLine{num: n, fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading puzzle file: %w", err)
	}
	return lines, nil
}

func expectKeyValue(lines []rawLine, idx *int, key string) (int, error) {
	if *idx >= len(lines) {
		return 0, &ParseError{Reason: fmt.Sprintf("expected %s, got end of file", key)}
	}
	line := lines[*idx]
	if len(line.fields) != 2 || !strings.EqualFold(line.fields[0], key) {
		return 0, &ParseError{Line: line.num, Reason: fmt.Sprintf("expected %s <n>", key)}
	}
	n, err := strconv.Atoi(line.fields[1])
	if err != nil {
		return 0, &ParseError{Line: line.num, Reason: fmt.Sprintf("%s value is not an integer: %q", key, line.fields[1])}
	}
	*idx++
	return n, nil
}

// parseFormatA parses the preferred "BOARD" format, one line per row's
// target color listing every tile of that color as (pos, remaining) pairs.
func parseFormatA(lines []rawLine, idx, rows, cols int, score ScoreFunc) (*Puzzle, error) {
	idx++ // consume "BOARD"
	names := make([]string, rows)
	grid := make([]Tile, rows*cols)
	seen := make(map[[2]int]bool, rows*cols)
	placed := 0

	for r := 0; r < rows; r++ {
		if idx >= len(lines) {
			return nil, &ParseError{Reason: fmt.Sprintf("BOARD section ended before declaring row %d", r)}
		}
		line := lines[idx]
		idx++
		if len(line.fields) < 3 {
			return nil, &ParseError{Line: line.num, Reason: "malformed BOARD row: expected <colorName> <pos> <moves> ..."}
		}
		nameEnd := 1
		for nameEnd < len(line.fields) && !positionPattern.MatchString(line.fields[nameEnd]) {
			nameEnd++
		}
		if nameEnd == len(line.fields) || (len(line.fields)-nameEnd)%2 != 0 {
			return nil, &ParseError{Line: line.num, Reason: "malformed BOARD row: could not find position/moves pairs"}
		}
		names[r] = strings.Join(line.fields[:nameEnd], " ")

		for i := nameEnd; i < len(line.fields); i += 2 {
			posTok, movesTok := line.fields[i], line.fields[i+1]
			row, col, err := parsePosition(posTok)
			if err != nil {
				return nil, &ParseError{Line: line.num, Reason: err.Error()}
			}
			if !(row >= 0 && row < rows && col >= 0 && col < cols) {
				return nil, &ParseError{Line: line.num, Reason: fmt.Sprintf("position %s is out of bounds for a %dx%d board", posTok, rows, cols)}
			}
			key := [2]int{row, col}
			if seen[key] {
				return nil, &ParseError{Line: line.num, Reason: fmt.Sprintf("duplicate position %s", posTok)}
			}
			seen[key] = true
			remaining, err := strconv.Atoi(movesTok)
			if err != nil || remaining < 0 {
				return nil, &ParseError{Line: line.num, Reason: fmt.Sprintf("invalid remaining-moves count %q", movesTok)}
			}
			grid[row*cols+col] = Tile{Color: uint16(r), Remaining: uint8(remaining)}
			placed++
		}
	}
	if placed != rows*cols {
		return nil, &ParseError{Reason: fmt.Sprintf("BOARD declared %d tiles, expected %d (%dx%d)", placed, rows*cols, rows, cols)}
	}

	board := NewBoard(rows, cols, grid)
	initial := NewInitialState(board, score)

	initial, idx, err := applyOptionalMoves(lines, idx, initial, score)
	if err != nil {
		return nil, err
	}
	if idx != len(lines) {
		return nil, &ParseError{Line: lines[idx].num, Reason: "unexpected trailing content after MOVES section"}
	}

	return &Puzzle{Initial: initial, Colors: NewColorTable(names)}, nil
}

// parseFormatB parses the legacy COLORS/TARGETS/TILES format.
func parseFormatB(lines []rawLine, idx, rows, cols int, score ScoreFunc) (*Puzzle, error) {
	idx++ // consume "COLORS"
	colorIDToName := map[int]string{}
	for idx < len(lines) && !strings.EqualFold(lines[idx].fields[0], "TARGETS") {
		line := lines[idx]
		if len(line.fields) != 2 {
			return nil, &ParseError{Line: line.num, Reason: "malformed COLORS line: expected <name> <id>"}
		}
		id, err := strconv.Atoi(line.fields[1])
		if err != nil {
			return nil, &ParseError{Line: line.num, Reason: fmt.Sprintf("color id is not an integer: %q", line.fields[1])}
		}
		colorIDToName[id] = line.fields[0]
		idx++
	}
	if idx >= len(lines) {
		return nil, &ParseError{Reason: "missing TARGETS section"}
	}
	targetsLine := lines[idx]
	if !strings.EqualFold(targetsLine.fields[0], "TARGETS") || len(targetsLine.fields) != rows+1 {
		return nil, &ParseError{Line: targetsLine.num, Reason: fmt.Sprintf("TARGETS must list exactly %d color ids", rows)}
	}
	idx++
	// targetRowOf[colorID] = row index that color targets
	targetRowOf := map[int]int{}
	names := make([]string, rows)
	for r, tok := range targetsLine.fields[1:] {
		id, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &ParseError{Line: targetsLine.num, Reason: fmt.Sprintf("invalid target color id %q", tok)}
		}
		name, ok := colorIDToName[id]
		if !ok {
			return nil, &ParseError{Line: targetsLine.num, Reason: fmt.Sprintf("TARGETS references undeclared color id %d", id)}
		}
		targetRowOf[id] = r
		names[r] = name
	}

	if idx >= len(lines) || !strings.EqualFold(lines[idx].fields[0], "TILES") {
		return nil, &ParseError{Reason: "missing TILES section"}
	}
	idx++

	grid := make([]Tile, rows*cols)
	seen := make(map[[2]int]bool, rows*cols)
	placed := 0
	for idx < len(lines) {
		line := lines[idx]
		if strings.EqualFold(line.fields[0], "MOVES") {
			break
		}
		if len(line.fields) != 3 {
			return nil, &ParseError{Line: line.num, Reason: "malformed TILES line: expected <pos> <id> <moves>"}
		}
		row, col, err := parsePosition(line.fields[0])
		if err != nil {
			return nil, &ParseError{Line: line.num, Reason: err.Error()}
		}
		if !(row >= 0 && row < rows && col >= 0 && col < cols) {
			return nil, &ParseError{Line: line.num, Reason: fmt.Sprintf("position %s is out of bounds for a %dx%d board", line.fields[0], rows, cols)}
		}
		key := [2]int{row, col}
		if seen[key] {
			return nil, &ParseError{Line: line.num, Reason: fmt.Sprintf("duplicate position %s", line.fields[0])}
		}
		seen[key] = true
		id, err := strconv.Atoi(line.fields[1])
		if err != nil {
			return nil, &ParseError{Line: line.num, Reason: fmt.Sprintf("invalid color id %q", line.fields[1])}
		}
		targetRow, ok := targetRowOf[id]
		if !ok {
			return nil, &ParseError{Line: line.num, Reason: fmt.Sprintf("tile references undeclared color id %d", id)}
		}
		remaining, err := strconv.Atoi(line.fields[2])
		if err != nil || remaining < 0 {
			return nil, &ParseError{Line: line.num, Reason: fmt.Sprintf("invalid remaining-moves count %q", line.fields[2])}
		}
		grid[row*cols+col] = Tile{Color: uint16(targetRow), Remaining: uint8(remaining)}
		placed++
		idx++
	}
	if placed != rows*cols {
		return nil, &ParseError{Reason: fmt.Sprintf("TILES declared %d tiles, expected %d (%dx%d)", placed, rows*cols, rows, cols)}
	}

	board := NewBoard(rows, cols, grid)
	initial := NewInitialState(board, score)

	initial, idx, err := applyOptionalMoves(lines, idx, initial, score)
	if err != nil {
		return nil, err
	}
	if idx != len(lines) {
		return nil, &ParseError{Line: lines[idx].num, Reason: "unexpected trailing content after MOVES section"}
	}

	return &Puzzle{Initial: initial, Colors: NewColorTable(names)}, nil
}

// applyOptionalMoves consumes a trailing "MOVES" block (if present),
// applying each notation in order to produce the actual initial state from
// the declared board (spec.md §6: "moves to be applied to the declared
// board to produce the actual initial state").
func applyOptionalMoves(lines []rawLine, idx int, state *BoardState, score ScoreFunc) (*BoardState, int, error) {
	if idx >= len(lines) || !strings.EqualFold(lines[idx].fields[0], "MOVES") {
		return state, idx, nil
	}
	idx++
	for idx < len(lines) {
		line := lines[idx]
		if len(line.fields) != 1 {
			return nil, idx, &ParseError{Line: line.num, Reason: "expected one move notation per MOVES line"}
		}
		m, err := ParseMoveNotation(line.fields[0])
		if err != nil {
			return nil, idx, &ParseError{Line: line.num, Reason: err.Error()}
		}
		if !m.WellFormed(state.Board.Rows(), state.Board.Cols()) {
			return nil, idx, &ParseError{Line: line.num, Reason: fmt.Sprintf("move %s is not same-row/same-column or is out of bounds", m.Notation())}
		}
		next, err := ApplyMove(state, m, score)
		if err != nil {
			return nil, idx, &ParseError{Line: line.num, Reason: err.Error()}
		}
		state = next
		idx++
	}
	return state, idx, nil
}
