package engine

import (
	"runtime"
	"sync"
)

// minRowsPerWorker keeps small images on a single goroutine.
const minRowsPerWorker = 16

// ParallelFor executes fn in parallel over the range [0, n), split into
// contiguous chunks of at least minChunk items. A panic in any chunk is
// re-raised on the calling goroutine once every chunk has returned.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}
	workers := runtime.GOMAXPROCS(0)
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var (
		wg       sync.WaitGroup
		once     sync.Once
		panicked any
	)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					once.Do(func() { panicked = r })
				}
			}()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
	if panicked != nil {
		panic(panicked)
	}
}
