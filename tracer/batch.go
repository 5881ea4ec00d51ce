package tracer

import (
	"sync"

	"github.com/achilleasa/octrace/asset/scene"
)

// The outcome of tracing a single ray of a batch.
type Result struct {
	Hit Hit
	Ok  bool
}

// A contiguous range of rays assigned to a worker.
type block struct {
	start, end int
}

// Split a batch of n rays into one block per worker. Rays that do not divide
// evenly are appended to the first block.
func scheduleBlocks(n, workers int) []block {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers == 0 {
		return nil
	}

	blocks := make([]block, workers)
	size := n / workers
	start := 0
	for index := range blocks {
		end := start + size
		if index == 0 {
			end += n - size*workers
		}
		blocks[index] = block{start: start, end: end}
		start = end
	}
	return blocks
}

// TraceBatch intersects a batch of rays with a scene using up to workers
// goroutines. Each worker uses its own Tracer; the lookup tables are shared
// read-only.
func TraceBatch(sc *scene.Scene, opts Options, rays []Ray, workers int) ([]Result, error) {
	blocks := scheduleBlocks(len(rays), workers)
	tracers := make([]*Tracer, len(blocks))
	for index := range tracers {
		tr, err := New(sc, opts)
		if err != nil {
			return nil, err
		}
		tracers[index] = tr
	}

	results := make([]Result, len(rays))
	var wg sync.WaitGroup
	wg.Add(len(blocks))
	for index, blk := range blocks {
		go func(tr *Tracer, blk block) {
			defer wg.Done()
			for rayIndex := blk.start; rayIndex < blk.end; rayIndex++ {
				hit, ok := tr.Intersect(rays[rayIndex])
				results[rayIndex] = Result{Hit: hit, Ok: ok}
			}
		}(tracers[index], blk)
	}
	wg.Wait()

	return results, nil
}
