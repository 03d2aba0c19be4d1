package control

import (
	"runtime"
	"sync"
)

// ParallelFor executes fn over [0, n) split into contiguous chunks of at
// least minChunk items, one goroutine per chunk.
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

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
