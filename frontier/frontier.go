// Package frontier holds PendingStates — the sharded, priority-bucketed
// lock-free queue grid that stores pending BoardStates — plus its
// checkpoint (save/resume) format (spec.md §4.4, §4.8).
package frontier

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/gridswap/gridswap/puzzle"
)

// DefaultReplicas is the default shard count per priority bucket (spec.md
// §6's `-repl` flag default).
const DefaultReplicas = 3

// BucketHeadroom is added to a puzzle's initial score to size the bucket
// grid (spec.md §9 Open Question: "initial score + a small constant").
// A floor keeps tiny puzzles (e.g. the 2x2 scenario, whose initial score
// may be 0-2) from degenerating to a single usable bucket.
const BucketHeadroom = 8
const MinBuckets = 16

// InvalidityKey identifies one (depth, predicate) cell of the invalidity
// histogram (spec.md §4.4's invalidity_counters map).
type InvalidityKey struct {
	MoveCount int
	Predicate string
}

// Frontier is PendingStates: a 2D grid of lock-free FIFO queues indexed by
// [priorityBucket][shard], plus the solution slot and batched counters
// (spec.md §4.4).
type Frontier struct {
	maxScore int
	replicas int
	queues   [][]*lockFreeQueue[*puzzle.BoardState]
	active   [][]atomic.Bool

	solutionFound atomic.Bool
	solution      atomic.Pointer[puzzle.BoardState]

	statesProcessed atomic.Int64
	statesGenerated atomic.Int64
	statesPruned    atomic.Int64

	invalidityMu       sync.Mutex
	invalidityCounters map[InvalidityKey]*atomic.Int64
}

// New builds a Frontier sized for an initial score, per spec.md §4.5's
// "MAX_SCORE should be set to roughly (initial score) + a small constant".
func New(initialScore, replicas int) *Frontier {
	if replicas < 1 {
		replicas = DefaultReplicas
	}
	maxScore := initialScore + BucketHeadroom
	if maxScore < MinBuckets-1 {
		maxScore = MinBuckets - 1
	}
	return newFrontier(maxScore, replicas)
}

func newFrontier(maxScore, replicas int) *Frontier {
	buckets := maxScore + 1
	f := &Frontier{
		maxScore:           maxScore,
		replicas:           replicas,
		queues:             make([][]*lockFreeQueue[*puzzle.BoardState], buckets),
		active:             make([][]atomic.Bool, buckets),
		invalidityCounters: make(map[InvalidityKey]*atomic.Int64),
	}
	for b := 0; b < buckets; b++ {
		f.queues[b] = make([]*lockFreeQueue[*puzzle.BoardState], replicas)
		f.active[b] = make([]atomic.Bool, replicas)
		for s := 0; s < replicas; s++ {
			f.queues[b][s] = newLockFreeQueue[*puzzle.BoardState]()
		}
	}
	return f
}

// Replicas reports the shard count.
func (f *Frontier) Replicas() int { return f.replicas }

// bucketFor clamps a score into [0, maxScore], the last index acting as the
// overflow bucket (spec.md §4.4).
func (f *Frontier) bucketFor(score int) int {
	if score > f.maxScore {
		return f.maxScore
	}
	if score < 0 {
		return 0
	}
	return score
}

// Add enqueues state into the bucket derived from its score, in a randomly
// chosen shard (spec.md §4.4's add operation).
func (f *Frontier) Add(state *puzzle.BoardState, rng *rand.Rand) {
	b := f.bucketFor(state.Score)
	s := rng.Intn(f.replicas)
	f.active[b][s].Store(true)
	f.queues[b][s].enqueue(state)
}

// Poll draws a random shard and scans its buckets from 0 upward, returning
// the first available state, or (nil, false) if that shard is empty
// (spec.md §4.4's poll operation — the caller backs off on a miss rather
// than the frontier itself retrying other shards).
func (f *Frontier) Poll(rng *rand.Rand) (*puzzle.BoardState, bool) {
	s := rng.Intn(f.replicas)
	for b := 0; b <= f.maxScore; b++ {
		if !f.active[b][s].Load() {
			continue
		}
		if state, ok := f.queues[b][s].dequeue(); ok {
			return state, true
		}
	}
	return nil, false
}

// IsEmpty reports whether every shard of every bucket is empty.
func (f *Frontier) IsEmpty() bool {
	for b := 0; b <= f.maxScore; b++ {
		for s := 0; s < f.replicas; s++ {
			if f.queues[b][s].approxLen() > 0 {
				return false
			}
		}
	}
	return true
}

// Size sums queue lengths across the whole grid. Approximate under
// concurrency (spec.md §4.4).
func (f *Frontier) Size() int64 {
	var total int64
	for b := 0; b <= f.maxScore; b++ {
		for s := 0; s < f.replicas; s++ {
			total += f.queues[b][s].approxLen()
		}
	}
	return total
}

// BucketSizes returns the approximate size of each priority bucket
// (summed across shards), for progress reporting.
func (f *Frontier) BucketSizes() []int64 {
	sizes := make([]int64, f.maxScore+1)
	for b := 0; b <= f.maxScore; b++ {
		var total int64
		for s := 0; s < f.replicas; s++ {
			total += f.queues[b][s].approxLen()
		}
		sizes[b] = total
	}
	return sizes
}

// CollectAll drains every shard of every bucket, returning every state it
// held. Not linearizable with concurrent adds — callers must only invoke
// this after workers have quiesced (spec.md §4.4).
func (f *Frontier) CollectAll() []*puzzle.BoardState {
	var all []*puzzle.BoardState
	for b := 0; b <= f.maxScore; b++ {
		for s := 0; s < f.replicas; s++ {
			for {
				state, ok := f.queues[b][s].dequeue()
				if !ok {
					break
				}
				all = append(all, state)
			}
		}
	}
	return all
}

// PublishSolution sets the solution exactly once; the first caller wins,
// every later caller observes SolutionFound()==true and gets false back
// (spec.md §4.6's idempotent publish_solution).
func (f *Frontier) PublishSolution(state *puzzle.BoardState) bool {
	if !f.solutionFound.CompareAndSwap(false, true) {
		return false
	}
	f.solution.Store(state)
	return true
}

// SolutionFound reports whether a solution has been published.
func (f *Frontier) SolutionFound() bool {
	return f.solutionFound.Load()
}

// Solution returns the published solution, or nil if none has been found
// yet.
func (f *Frontier) Solution() *puzzle.BoardState {
	return f.solution.Load()
}

// AddBatch flushes one worker iteration's locally accumulated counters in
// a single set of atomic adds, per spec.md §4.4/§9's batching requirement
// (avoiding per-move atomic traffic).
func (f *Frontier) AddBatch(processed, generated, pruned int64) {
	if processed != 0 {
		f.statesProcessed.Add(processed)
	}
	if generated != 0 {
		f.statesGenerated.Add(generated)
	}
	if pruned != 0 {
		f.statesPruned.Add(pruned)
	}
}

// Counters is a point-in-time, eventually-consistent snapshot of the
// frontier's batched counters.
type Counters struct {
	Processed int64
	Generated int64
	Pruned    int64
}

// Snapshot reads the current counters.
func (f *Frontier) Snapshot() Counters {
	return Counters{
		Processed: f.statesProcessed.Load(),
		Generated: f.statesGenerated.Load(),
		Pruned:    f.statesPruned.Load(),
	}
}

// BumpInvalidity increments the (moveCount, predicate) cell of the
// invalidity histogram. Only called when the reporter is configured to
// track per-predicate statistics (spec.md §4.4, `-i` flag).
func (f *Frontier) BumpInvalidity(moveCount int, predicate string) {
	key := InvalidityKey{MoveCount: moveCount, Predicate: predicate}
	f.invalidityMu.Lock()
	counter, ok := f.invalidityCounters[key]
	if !ok {
		counter = &atomic.Int64{}
		f.invalidityCounters[key] = counter
	}
	f.invalidityMu.Unlock()
	counter.Add(1)
}

// InvalidityEntry is one row of the invalidity histogram snapshot.
type InvalidityEntry struct {
	MoveCount int
	Predicate string
	Count     int64
}

// InvaliditySnapshot returns the histogram sorted by suite-evaluation order
// of the predicate, then ascending move count — the table order SPEC_FULL.md
// §12 records.
func (f *Frontier) InvaliditySnapshot(predicateOrder []string) []InvalidityEntry {
	rank := make(map[string]int, len(predicateOrder))
	for i, name := range predicateOrder {
		rank[name] = i
	}

	f.invalidityMu.Lock()
	entries := make([]InvalidityEntry, 0, len(f.invalidityCounters))
	for key, counter := range f.invalidityCounters {
		entries = append(entries, InvalidityEntry{
			MoveCount: key.MoveCount,
			Predicate: key.Predicate,
			Count:     counter.Load(),
		})
	}
	f.invalidityMu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		ri, rj := rank[entries[i].Predicate], rank[entries[j].Predicate]
		if ri != rj {
			return ri < rj
		}
		return entries[i].MoveCount < entries[j].MoveCount
	})
	return entries
}

func (k InvalidityKey) String() string {
	return fmt.Sprintf("%s@%d", k.Predicate, k.MoveCount)
}
