package frontier

import (
	"math/rand"
	"testing"

	"github.com/gridswap/gridswap/puzzle"
)

func solvedState() *puzzle.BoardState {
	board := puzzle.NewBoard(1, 1, []puzzle.Tile{{Color: 0, Remaining: 0}})
	return puzzle.NewInitialState(board, puzzle.ZeroScore)
}

func stateWithScore(score int) *puzzle.BoardState {
	s := solvedState()
	s.Score = score
	return s
}

func TestFrontier_AddPollRoundTrip(t *testing.T) {
	f := New(10, 2)
	rng := rand.New(rand.NewSource(1))
	state := stateWithScore(3)

	f.Add(state, rng)
	if f.IsEmpty() {
		t.Fatal("expected frontier to be non-empty after Add")
	}

	got, ok := f.Poll(rng)
	if !ok {
		t.Fatal("Poll() returned ok=false, expected a state")
	}
	if got != state {
		t.Errorf("Poll() returned a different state than was added")
	}
	if !f.IsEmpty() {
		t.Error("expected frontier to be empty after draining the only state")
	}
}

func TestFrontier_BucketForClampsToRange(t *testing.T) {
	f := New(5, 2)
	if b := f.bucketFor(-3); b != 0 {
		t.Errorf("bucketFor(-3) = %d, want 0", b)
	}
	if b := f.bucketFor(1_000_000); b != f.maxScore {
		t.Errorf("bucketFor(huge) = %d, want maxScore %d", b, f.maxScore)
	}
}

func TestFrontier_PublishSolutionIsIdempotent(t *testing.T) {
	f := New(5, 2)
	first := stateWithScore(0)
	second := stateWithScore(0)

	if !f.PublishSolution(first) {
		t.Fatal("first PublishSolution call should succeed")
	}
	if f.PublishSolution(second) {
		t.Fatal("second PublishSolution call should fail: already found")
	}
	if f.Solution() != first {
		t.Error("Solution() should return the first published state")
	}
}

func TestFrontier_CollectAllDrainsEveryShard(t *testing.T) {
	f := New(10, 4)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		f.Add(stateWithScore(i%8), rng)
	}
	collected := f.CollectAll()
	if len(collected) != 50 {
		t.Errorf("CollectAll() returned %d states, want 50", len(collected))
	}
	if !f.IsEmpty() {
		t.Error("expected frontier to be empty after CollectAll")
	}
}

func TestFrontier_AddBatchAndSnapshot(t *testing.T) {
	f := New(5, 2)
	f.AddBatch(3, 10, 4)
	f.AddBatch(2, 5, 1)
	snap := f.Snapshot()
	if snap.Processed != 5 || snap.Generated != 15 || snap.Pruned != 5 {
		t.Errorf("Snapshot() = %+v, want {5 15 5}", snap)
	}
}

func TestFrontier_InvaliditySnapshotOrdering(t *testing.T) {
	f := New(5, 2)
	f.BumpInvalidity(3, "StuckTiles")
	f.BumpInvalidity(1, "BlockedSwap")
	f.BumpInvalidity(2, "BlockedSwap")

	entries := f.InvaliditySnapshot([]string{"BlockedSwap", "StuckTiles"})
	if len(entries) != 3 {
		t.Fatalf("InvaliditySnapshot() returned %d entries, want 3", len(entries))
	}
	if entries[0].Predicate != "BlockedSwap" || entries[0].MoveCount != 1 {
		t.Errorf("entries[0] = %+v, want BlockedSwap@1 first", entries[0])
	}
	if entries[2].Predicate != "StuckTiles" {
		t.Errorf("entries[2] = %+v, want StuckTiles last", entries[2])
	}
}
