// Package memlimit estimates how much headroom is available to hold
// multiple rendered partition canvases resident at once, so the CLI can
// bound its encode-stage concurrency instead of guessing a fixed worker
// count that might not fit the machine it runs on.
package memlimit

import (
	"log"
	"runtime"
)

// DefaultBudgetFraction is the fraction of total RAM the encode stage may
// occupy with in-flight canvases. 0.50 = 50%.
const DefaultBudgetFraction = 0.50

// ComputeBudget returns the maximum bytes of partition canvases the encode
// stage should hold resident at once. It takes a fraction of total system
// RAM and subtracts the current Go heap's own usage plus a fixed overhead
// reservation, so the estimate doesn't starve the process that's computing
// it.
//
// Returns 0 if RAM detection fails or the computed budget is unreasonably
// small, in which case the caller should fall back to strictly serial
// encoding.
func ComputeBudget(fraction float64, verbose bool) int64 {
	totalRAM, err := totalSystemRAM()
	if err != nil {
		if verbose {
			log.Printf("Cannot detect system RAM: %v; encoding serially", err)
		}
		return 0
	}

	if verbose {
		log.Printf("System RAM: %.1f GB", float64(totalRAM)/(1024*1024*1024))
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	overhead := m.Sys + 512*1024*1024

	budget := int64(float64(totalRAM)*fraction) - int64(overhead)
	if budget < 64*1024*1024 { // minimum 64 MB
		if verbose {
			log.Printf("Computed encode budget too small (%.0f MB); encoding serially",
				float64(budget)/(1024*1024))
		}
		return 0
	}

	if verbose {
		log.Printf("Encode concurrency budget: %.1f GB (%.0f%% of RAM minus %.1f GB overhead)",
			float64(budget)/(1024*1024*1024), fraction*100, float64(overhead)/(1024*1024*1024))
	}

	return budget
}

// Workers derives a worker count from a byte budget and an estimated
// per-canvas size, clamped to [1, runtime.NumCPU()]. A zero or negative
// budget yields 1 (serial).
func Workers(budget int64, bytesPerCanvas int64) int {
	if budget <= 0 || bytesPerCanvas <= 0 {
		return 1
	}
	n := int(budget / bytesPerCanvas)
	if n < 1 {
		n = 1
	}
	if cpu := runtime.NumCPU(); n > cpu {
		n = cpu
	}
	return n
}
