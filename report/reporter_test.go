package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gridswap/gridswap/frontier"
)

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "000:00:00"},
		{90 * time.Second, "000:01:30"},
		{3661 * time.Second, "001:01:01"},
	}
	for _, tc := range cases {
		if got := formatElapsed(tc.d); got != tc.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1_500, "1.5K"},
		{2_000_000, "2.0M"},
		{3_000_000_000, "3.0B"},
	}
	for _, tc := range cases {
		if got := formatCount(tc.n); got != tc.want {
			t.Errorf("formatCount(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestRun_DisabledWhenIntervalZero(t *testing.T) {
	fr := frontier.New(4, 2)
	var buf bytes.Buffer
	done := make(chan struct{})
	close(done)
	Run(done, Config{Frontier: fr, Interval: 0, Out: &buf})
	if buf.Len() != 0 {
		t.Errorf("expected no output with Interval=0, got %q", buf.String())
	}
}

func TestRun_WritesAtLeastOneTick(t *testing.T) {
	fr := frontier.New(4, 2)
	fr.AddBatch(5, 10, 2)
	var buf bytes.Buffer
	done := make(chan struct{})

	go func() {
		time.Sleep(30 * time.Millisecond)
		close(done)
	}()
	Run(done, Config{Frontier: fr, Interval: 5 * time.Millisecond, Out: &buf})

	if !strings.Contains(buf.String(), "Processed:") {
		t.Errorf("expected at least one progress line, got %q", buf.String())
	}
}
