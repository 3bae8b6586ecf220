package dfu

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Result is one device's outcome from a parallel flash run.
type Result struct {
	Label string
	Err   error
}

// FlashFunc flashes a single unit of work, invoking progress for
// per-block updates.
type FlashFunc func(ctx context.Context, progress func(block, total int)) error

// Job pairs a human-readable label (serial number) with its flash
// function, the way dfu_flash/kbi_flash pair a device with its queue.
type Job struct {
	Label string
	Run   FlashFunc
}

// maxBatch caps how many devices are flashed concurrently in one
// batch, mirroring parallel_program's USB-DFU concurrency limit.
const maxBatch = 18

// RunParallel flashes jobs in batches of up to maxBatch concurrently,
// joining each batch before starting the next, and returns one Result
// per job once all have finished, mirroring parallel_program's
// thread-per-device plus join-and-collect pattern.
func RunParallel(ctx context.Context, jobs []Job, onProgress func(label string, block, total int)) []Result {
	results := make([]Result, len(jobs))

	for start := 0; start < len(jobs); start += maxBatch {
		end := start + maxBatch
		if end > len(jobs) {
			end = len(jobs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			job := jobs[i]
			wg.Add(1)
			go func(i int, job Job) {
				defer wg.Done()
				err := job.Run(ctx, func(block, total int) {
					if onProgress != nil {
						onProgress(job.Label, block, total)
					}
				})
				results[i] = Result{Label: job.Label, Err: err}
			}(i, job)
		}
		wg.Wait()
	}
	return results
}

// Summary renders a flash run's outcome the way parallel_program's
// final report does: one line per device plus an overall tally.
func Summary(results []Result, elapsed time.Duration) string {
	out := fmt.Sprintf("Elapsed: %dm%ds\n", int(elapsed.Minutes()), int(elapsed.Seconds())%60)
	ok := 0
	for _, r := range results {
		if r.Err == nil {
			out += fmt.Sprintf("\t%s: OK\n", r.Label)
			ok++
		} else {
			out += fmt.Sprintf("\t%s: %v\n", r.Label, r.Err)
		}
	}
	out += fmt.Sprintf("Flashed %d of %d devices.\n", ok, len(results))
	return out
}
