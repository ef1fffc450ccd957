// Package worker implements StateProcessor, the long-running worker loop
// that pulls states from the frontier, generates and filters successors,
// and either publishes a solution or feeds them back (spec.md §4.6).
package worker

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/gridswap/gridswap/frontier"
	"github.com/gridswap/gridswap/puzzle"
	"github.com/gridswap/gridswap/search"
)

// DefaultCacheThreshold is CACHE_THRESHOLD (spec.md §4.6's default 4).
const DefaultCacheThreshold = 4

// cacheCapacityHint pre-reserves the worker's thread-local LIFO stack,
// matching spec.md §4.6's "capacity pre-reserved to ~100,000 entries".
const cacheCapacityHint = 100_000

// backoff is the sleep a worker takes when its drawn shard is starved,
// within spec.md §4.6's "brief backoff (e.g., sleep <= 100 ms)".
const backoff = 20 * time.Millisecond

// Config wires one worker's dependencies. Frontier, Generator, Score, and
// Active are shared across every worker in the pool; Cache and the RNG are
// private to each worker (spec.md §4.6, §5).
type Config struct {
	Frontier        *frontier.Frontier
	Generator       *search.Generator
	Score           puzzle.ScoreFunc
	CacheThreshold  int
	TrackInvalidity bool
	// Active is a shared "outstanding work" counter: incremented while a
	// worker holds a state it hasn't finished processing, decremented once
	// it has. Combined with Frontier.IsEmpty(), it is how a worker decides
	// no other worker could still be about to add more work (spec.md
	// §4.6's "no work is being generated").
	Active *atomic.Int64
	// Debug disables empty-frontier termination (spec.md §6's `-d` flag),
	// so a worker only stops on solution or context cancellation.
	Debug bool
}

// Run executes the StateProcessor loop until a solution is published, the
// frontier and every worker are quiescent, or ctx is cancelled. It returns
// a non-nil error only for a runtime invariant violation (spec.md §7) —
// that error is meant to propagate through an errgroup and terminate the
// process, not be retried.
func Run(ctx context.Context, cfg Config, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	cache := make([]*puzzle.BoardState, 0, cacheCapacityHint)

	threshold := cfg.CacheThreshold
	if threshold <= 0 {
		threshold = DefaultCacheThreshold
	}

	for {
		select {
		case <-ctx.Done():
			cfg.drainCache(cache, rng)
			return nil
		default:
		}
		if cfg.Frontier.SolutionFound() {
			return nil
		}

		state, ok := popCache(&cache)
		if !ok {
			state, ok = cfg.Frontier.Poll(rng)
		}
		if !ok {
			if !cfg.Debug && cfg.Frontier.IsEmpty() && len(cache) == 0 && cfg.Active.Load() == 0 {
				return nil
			}
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				cfg.drainCache(cache, rng)
				return nil
			}
			continue
		}

		cfg.Active.Add(1)
		done, err := cfg.process(state, &cache, rng, threshold)
		cfg.Active.Add(-1)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// drainCache pushes every state left on a worker's private LIFO cache back
// onto the shared frontier. Called only on shutdown (ctx cancellation), so
// the orchestrator's checkpoint can see states that would otherwise be
// lost inside a worker that never got to process them (spec.md §4.7: "drain
// the frontier and each worker's cache").
func (cfg Config) drainCache(cache []*puzzle.BoardState, rng *rand.Rand) {
	for _, state := range cache {
		cfg.Frontier.Add(state, rng)
	}
}

// process handles one polled/cached state: check-solved, generate, classify
// each successor, and route it to the solution slot, the worker's private
// cache, or the shared frontier. It returns done=true once it has found a
// solved state and handed it to PublishSolution. If another worker's
// solution is observed mid-loop it stops and returns done=false; Run's loop
// then sees SolutionFound and returns.
func (cfg Config) process(state *puzzle.BoardState, cache *[]*puzzle.BoardState, rng *rand.Rand, threshold int) (done bool, err error) {
	if state.IsSolved() {
		cfg.Frontier.PublishSolution(state)
		return true, nil
	}

	moves := cfg.Generator.Generate(state)
	var localGenerated, localPruned int64

	for _, m := range moves {
		if cfg.Frontier.SolutionFound() {
			break
		}
		next, applyErr := puzzle.ApplyMove(state, m, cfg.Score)
		if applyErr != nil {
			cfg.Frontier.AddBatch(1, localGenerated, localPruned)
			return false, applyErr
		}
		localGenerated++

		if next.IsSolved() {
			cfg.Frontier.PublishSolution(next)
			cfg.Frontier.AddBatch(1, localGenerated, localPruned)
			return true, nil
		}

		predicate, invalid := search.Classify(next)
		if invalid {
			localPruned++
			if cfg.TrackInvalidity {
				cfg.Frontier.BumpInvalidity(next.MoveCount, predicate)
			}
			continue
		}

		if next.RemainingMoves < threshold {
			*cache = append(*cache, next)
		} else {
			cfg.Frontier.Add(next, rng)
		}
	}

	cfg.Frontier.AddBatch(1, localGenerated, localPruned)
	return false, nil
}

// popCache pops the top of the LIFO cache stack. LIFO order is required,
// not FIFO: it preserves depth-first locality near the goal and bounds
// cache growth (spec.md §4.6).
func popCache(cache *[]*puzzle.BoardState) (*puzzle.BoardState, bool) {
	n := len(*cache)
	if n == 0 {
		return nil, false
	}
	state := (*cache)[n-1]
	*cache = (*cache)[:n-1]
	return state, true
}
