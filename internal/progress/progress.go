// Package progress renders an in-place terminal progress bar for a render
// run, refreshed on a ticker and safe for concurrent Increment calls.
package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Bar tracks completed-vs-total work and redraws itself periodically.
type Bar struct {
	total     int64
	processed atomic.Int64
	label     string
	barWidth  int
	start     time.Time
	done      chan struct{}
	mu        sync.Mutex
}

// New starts a progress bar labelled label, tracking total units of work.
func New(label string, total int64) *Bar {
	b := &Bar{
		total:    total,
		label:    label,
		barWidth: 30,
		start:    time.Now(),
		done:     make(chan struct{}),
	}
	go b.run()
	return b
}

// Increment marks one more unit as processed. Safe for concurrent use.
func (b *Bar) Increment() {
	b.processed.Add(1)
}

// Finish stops the refresh loop and prints the final bar state with a newline.
func (b *Bar) Finish() {
	close(b.done)
	b.draw()
	fmt.Fprint(os.Stderr, "\n")
}

func (b *Bar) run() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.draw()
		}
	}
}

func (b *Bar) draw() {
	b.mu.Lock()
	defer b.mu.Unlock()

	processed := b.processed.Load()
	total := b.total

	var frac float64
	if total > 0 {
		frac = float64(processed) / float64(total)
	}
	if frac > 1 {
		frac = 1
	}

	filled := int(float64(b.barWidth) * frac)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", b.barWidth-filled)

	elapsed := time.Since(b.start)
	rate := float64(0)
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(processed) / secs
	}

	fmt.Fprintf(os.Stderr, "\r%s [%s] %3.0f%%  %d/%d screens  %.0f/s  %s\033[K",
		b.label, bar, frac*100, processed, total, rate, formatDuration(elapsed))
}

func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) - m*60
	return fmt.Sprintf("%dm%02ds", m, s)
}
