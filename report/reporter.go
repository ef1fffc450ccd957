// Package report implements the progress reporter: a dedicated ticker that
// periodically snapshots the frontier's counters and emits one summary
// line, plus an optional per-predicate invalidity table (spec.md §4.9).
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gridswap/gridswap/frontier"
)

// Config wires a Reporter's dependencies.
type Config struct {
	Frontier        *frontier.Frontier
	Interval        time.Duration // 0 disables the reporter (spec.md §6's `-r 0`)
	TrackInvalidity bool
	PredicateOrder  []string // suite-evaluation order, for table column ordering
	Out             io.Writer
}

// Run ticks at cfg.Interval, writing one progress line (and, if enabled,
// the invalidity histogram) per tick until done is closed. If cfg.Interval is
// zero, Run returns immediately without starting a ticker.
func Run(done <-chan struct{}, cfg Config) {
	if cfg.Interval <= 0 {
		return
	}
	start := time.Now()
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			writeTick(cfg, start)
		}
	}
}

func writeTick(cfg Config, start time.Time) {
	elapsed := time.Since(start)
	counters := cfg.Frontier.Snapshot()

	var pruneRate float64
	if counters.Generated > 0 {
		pruneRate = 100 * float64(counters.Pruned) / float64(counters.Generated)
	}

	var ratePerSec float64
	elapsedSeconds := elapsed.Seconds()
	if elapsedSeconds > 0 {
		ratePerSec = float64(counters.Processed) / elapsedSeconds
	}

	var avgMs float64
	if counters.Processed > 0 {
		avgMs = float64(elapsed.Milliseconds()) / float64(counters.Processed)
	}

	var queueParts []string
	for b, sz := range cfg.Frontier.BucketSizes() {
		queueParts = append(queueParts, fmt.Sprintf("b%d:%s", b, formatCount(sz)))
	}

	fmt.Fprintf(cfg.Out, "[%s] Processed: %s | Pruned: %.1f%% | Queues: %s | Rate: %s/sec | Avg: %.2fms\n",
		formatElapsed(elapsed),
		formatCount(counters.Processed),
		pruneRate,
		strings.Join(queueParts, " "),
		formatCount(int64(ratePerSec)),
		avgMs,
	)

	if cfg.TrackInvalidity {
		writeInvalidityTable(cfg, cfg.Frontier.InvaliditySnapshot(cfg.PredicateOrder))
	}
}

func writeInvalidityTable(cfg Config, entries []frontier.InvalidityEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(cfg.Out, "  predicate            move-count   count")
	for _, e := range entries {
		fmt.Fprintf(cfg.Out, "  %-20s %10d   %s\n", e.Predicate, e.MoveCount, formatCount(e.Count))
	}
}

// formatElapsed renders a duration as "hhh:mm:ss" (spec.md §4.9).
func formatElapsed(d time.Duration) string {
	total := int64(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%03d:%02d:%02d", hours, minutes, seconds)
}

// formatCount renders n with a K/M/B/T suffix and one decimal place once its
// magnitude reaches 1,000, per spec.md §4.9's number formatting rule.
func formatCount(n int64) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	suffixes := []struct {
		threshold int64
		suffix    string
	}{
		{1_000_000_000_000, "T"},
		{1_000_000_000, "B"},
		{1_000_000, "M"},
		{1_000, "K"},
	}
	for _, s := range suffixes {
		if abs >= s.threshold {
			return fmt.Sprintf("%.1f%s", float64(n)/float64(s.threshold), s.suffix)
		}
	}
	return fmt.Sprintf("%d", n)
}
