package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gridswap/gridswap/frontier"
	"github.com/gridswap/gridswap/puzzle"
	"github.com/gridswap/gridswap/report"
	"github.com/gridswap/gridswap/search"
	"github.com/gridswap/gridswap/worker"
)

var (
	threads         = flag.Int("t", 2, "worker thread count")
	reportSeconds   = flag.Int("r", 5, "reporter interval in seconds (0 = disable)")
	cacheThreshold  = flag.Int("c", worker.DefaultCacheThreshold, "cache threshold for near-goal states")
	replicas        = flag.Int("repl", frontier.DefaultReplicas, "frontier shard count")
	duration        = flag.String("dur", "", "run duration, <num>[s|m|h|d|w] (default unit: minutes); empty disables the deadline")
	debug           = flag.Bool("d", false, "debug mode: disable empty-frontier termination")
	trackInvalidity = flag.Bool("i", false, "track and report per-predicate invalidity counts")
	smallestFirst   = flag.Bool("smallestFirst", false, "order generated moves by smallest tile-sum first")
	largestFirst    = flag.Bool("largestFirst", false, "order generated moves by largest tile-sum first")
	help            = flag.Bool("h", false, "print usage and exit")
)

func main() {
	flag.Parse()
	if *help {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: gridswap [flags] <puzzle-file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	code, err := run(args[0])
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(code)
}

// run loads the puzzle, wires the frontier/workers/reporter, and waits for a
// terminal condition. Its int return is the process exit code (spec.md
// §6): 0 solved, 1 unsolved (exhausted / timed out), 2 bad arguments or a
// puzzle file that cannot be opened or parsed. A non-nil error is returned
// only when a worker fails with a runtime invariant violation; main reports
// it via log.Fatal.
func run(puzzlePath string) (int, error) {
	if *smallestFirst && *largestFirst {
		fmt.Fprintln(os.Stderr, "cannot set both --smallestFirst and --largestFirst")
		return 2, nil
	}
	deadline, err := parseDuration(*duration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -dur value: %v\n", err)
		return 2, nil
	}

	order := search.OrderNone
	switch {
	case *smallestFirst:
		order = search.OrderSmallestFirst
	case *largestFirst:
		order = search.OrderLargestFirst
	}

	score := puzzle.DefaultScore

	f, err := os.Open(puzzlePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open puzzle file: %v\n", err)
		return 2, nil
	}
	pz, err := puzzle.Parse(f, score)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse puzzle file: %v\n", err)
		return 2, nil
	}

	statePath := resumeFilePath(puzzlePath)
	fr := frontier.New(pz.Initial.Score, *replicas)

	seeded, err := loadResume(statePath, pz.Initial, score, fr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not read resume file %s: %v\n", statePath, err)
	}
	if !seeded {
		rng := rand.New(rand.NewSource(1))
		fr.Add(pz.Initial, rng)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if deadline > 0 {
		timer := time.AfterFunc(deadline, cancel)
		defer timer.Stop()
	}

	var active atomic.Int64
	gen := search.NewGenerator(order)
	cfg := worker.Config{
		Frontier:        fr,
		Generator:       gen,
		Score:           score,
		CacheThreshold:  *cacheThreshold,
		TrackInvalidity: *trackInvalidity,
		Active:          &active,
		Debug:           *debug,
	}

	eg, egctx := errgroup.WithContext(ctx)
	workerCount := *threads
	if workerCount < 1 {
		workerCount = 1
	}
	for i := 0; i < workerCount; i++ {
		seed := int64(i + 1)
		eg.Go(func() error {
			return worker.Run(egctx, cfg, seed)
		})
	}

	// The reporter runs outside the errgroup: it must keep ticking for as
	// long as any worker is still running and stop as soon as they all have,
	// whether that's by solution, exhaustion, or cancellation — not just by
	// ctx itself being cancelled.
	reportDone := make(chan struct{})
	reportCfg := report.Config{
		Frontier:        fr,
		Interval:        time.Duration(*reportSeconds) * time.Second,
		TrackInvalidity: *trackInvalidity,
		PredicateOrder:  predicateNames(),
		Out:             os.Stdout,
	}
	go report.Run(reportDone, reportCfg)

	waitErr := eg.Wait()
	close(reportDone)
	if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return 1, waitErr
	}

	if fr.SolutionFound() {
		solution := fr.Solution()
		if err := writeSolution(puzzlePath, solution); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write solution file: %v\n", err)
		}
		os.Remove(statePath)
		fmt.Println(strings.Join(notationsOf(solution), " "))
		return 0, nil
	}

	// No solution: eg.Wait above has already waited, with no time limit, for
	// every worker to return; checkpoint whatever the frontier (and every
	// worker's drained cache) still holds (spec.md §4.6/§4.8).
	if err := writeCheckpoint(statePath, fr); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write checkpoint: %v\n", err)
	}
	fmt.Println("no solution found: frontier exhausted or duration elapsed")
	return 1, nil
}

// resumeFilePath derives the checkpoint path from the puzzle path: replace
// a trailing ".txt" with ".state.txt", or append ".state.txt" if the puzzle
// path has no ".txt" suffix (spec.md §4.8).
func resumeFilePath(puzzlePath string) string {
	if strings.HasSuffix(puzzlePath, ".txt") {
		return strings.TrimSuffix(puzzlePath, ".txt") + ".state.txt"
	}
	return puzzlePath + ".state.txt"
}

// loadResume reads and replays a resume file into fr, if one exists. It
// reports whether anything was seeded; a missing file is not an error.
func loadResume(path string, initial *puzzle.BoardState, score puzzle.ScoreFunc, fr *frontier.Frontier) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(2))
	states := frontier.Load(f, initial, score, func(lineErr error) {
		log.Printf("resume file line skipped: %v", lineErr)
	})
	for _, s := range states {
		fr.Add(s, rng)
	}
	return len(states) > 0, nil
}

// writeCheckpoint collects every state still held by the frontier (workers
// must have already quiesced, and have drained their private caches back
// into it — worker.Run's ctx.Done() paths do this) and saves it to path.
func writeCheckpoint(path string, fr *frontier.Frontier) error {
	states := fr.CollectAll()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return frontier.Save(f, states)
}

// writeSolution writes the solved state's move chain to a solution file
// beside the puzzle (a trailing ".txt" is replaced with ".solution.txt",
// otherwise ".solution.txt" is appended): "INITIAL" and the starting board,
// then each move's notation followed by the board after that step (spec.md
// §6's "Output" rule).
func writeSolution(puzzlePath string, solved *puzzle.BoardState) error {
	path := puzzlePath + ".solution.txt"
	if strings.HasSuffix(puzzlePath, ".txt") {
		path = strings.TrimSuffix(puzzlePath, ".txt") + ".solution.txt"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	root := solved.Root()
	cur := root
	fmt.Fprintf(f, "INITIAL\n%s\n", cur.Board.String())
	for _, m := range solved.MoveChain() {
		next, applyErr := puzzle.ApplyMove(cur, m, puzzle.ZeroScore)
		if applyErr != nil {
			return applyErr
		}
		fmt.Fprintf(f, "%s\n%s\n", m.Notation(), next.Board.String())
		cur = next
	}
	return nil
}

func notationsOf(s *puzzle.BoardState) []string {
	moves := s.MoveChain()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.Notation()
	}
	return out
}

func predicateNames() []string {
	names := make([]string, len(search.Suite))
	for i, p := range search.Suite {
		names[i] = p.Name
	}
	return names
}

var durationPattern = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)([smhdw]?)$`)

// parseDuration parses "<num>[s|m|h|d|w]" with a default unit of minutes
// (spec.md §6) — time.ParseDuration alone can't do this, since it neither
// defaults the unit nor understands "d"/"w" suffixes. Zero or negative
// disables the deadline (returned as 0).
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("malformed duration %q: expected <num>[s|m|h|d|w]", s)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed duration %q: %w", s, err)
	}
	unit := m[2]
	if unit == "" {
		unit = "m"
	}
	var perUnit time.Duration
	switch unit {
	case "s":
		perUnit = time.Second
	case "m":
		perUnit = time.Minute
	case "h":
		perUnit = time.Hour
	case "d":
		perUnit = 24 * time.Hour
	case "w":
		perUnit = 7 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("malformed duration %q: unknown unit %q", s, unit)
	}
	if n <= 0 {
		return 0, nil
	}
	return time.Duration(n * float64(perUnit)), nil
}
