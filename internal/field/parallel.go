package field

import (
	"runtime"
	"sync"
)

// minRowsPerWorker keeps small grids on the calling goroutine.
const minRowsPerWorker = 16

// parallelFor splits [0, n) into contiguous chunks and runs fn on each
// chunk concurrently. fn must only touch its own chunk.
func parallelFor(n, minChunk int, fn func(start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}
	workers = max(1, min(workers, n/minChunk))
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
