package frontier

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gridswap/gridswap/puzzle"
)

// ResumeLineError reports a single resume-file line that failed to replay.
// It is never fatal to the load as a whole (spec.md §4.8, §7): the line is
// logged and skipped.
type ResumeLineError struct {
	Line   int
	Reason string
}

func (e *ResumeLineError) Error() string {
	return fmt.Sprintf("resume file line %d: %s", e.Line, e.Reason)
}

// Save writes states as a newline-delimited list of replayable move
// sequences (spec.md §4.8): one line per state, each either the literal
// "INITIAL" or a space-separated sequence of move notations, prefixed with
// "<score>:" to cache the score.
func Save(w io.Writer, states []*puzzle.BoardState) error {
	bw := bufio.NewWriter(w)
	for _, s := range states {
		moves := s.MoveChain()
		var body string
		if len(moves) == 0 {
			body = "INITIAL"
		} else {
			notations := make([]string, len(moves))
			for i, m := range moves {
				notations[i] = m.Notation()
			}
			body = strings.Join(notations, " ")
		}
		if _, err := fmt.Fprintf(bw, "%d:%s\n", s.Score, body); err != nil {
			return fmt.Errorf("writing resume file: %w", err)
		}
	}
	return bw.Flush()
}

// Load replays each line of a resume file against initial, returning the
// fresh BoardStates it produces. Malformed or inapplicable lines are
// reported via onError (if non-nil) and skipped — they must never abort
// the load (spec.md §4.8, §7).
func Load(r io.Reader, initial *puzzle.BoardState, score puzzle.ScoreFunc, onError func(error)) []*puzzle.BoardState {
	var result []*puzzle.BoardState
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		state, err := replayLine(text, initial, score)
		if err != nil {
			if onError != nil {
				onError(&ResumeLineError{Line: lineNum, Reason: err.Error()})
			}
			continue
		}
		result = append(result, state)
	}
	if err := scanner.Err(); err != nil && onError != nil {
		onError(fmt.Errorf("reading resume file: %w", err))
	}
	return result
}

// replayLine parses one resume-file line (an optional "<score>:" prefix
// followed by "INITIAL" or space-separated move notations) and replays it
// against initial.
func replayLine(text string, initial *puzzle.BoardState, score puzzle.ScoreFunc) (*puzzle.BoardState, error) {
	body := text
	if colon := strings.IndexByte(text, ':'); colon >= 0 {
		prefix := text[:colon]
		if _, err := strconv.Atoi(prefix); err == nil {
			body = strings.TrimSpace(text[colon+1:])
		}
	}

	if body == "INITIAL" {
		return initial, nil
	}

	state := initial
	for _, tok := range strings.Fields(body) {
		m, err := puzzle.ParseMoveNotation(tok)
		if err != nil {
			return nil, err
		}
		next, err := puzzle.ApplyMove(state, m, score)
		if err != nil {
			return nil, err
		}
		state = next
	}
	return state, nil
}
