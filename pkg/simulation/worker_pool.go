package simulation

import (
	"context"
	"runtime"
	"sync"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/photon"
	"github.com/df07/go-photon-transport/pkg/scene"
)

// WorkItem is a contiguous range of photons propagated with one random stream
type WorkItem struct {
	ID    int
	First int    // Index of the first photon
	Count int    // Number of photons
	Seed  uint32 // Seed of the work item's random stream
}

// WorkResult reports a finished or skipped work item
type WorkResult struct {
	WorkItemID int
	Error      error // Set when the item was skipped after cancellation
}

// batch is the shared output written by workers. Work items cover disjoint
// photon ranges, so writes never overlap.
type batch struct {
	photons  []photon.Photon
	outcomes []photon.Outcome
	log      *photon.Log
}

// WorkerPool manages parallel propagation of work items
type WorkerPool struct {
	taskQueue   chan WorkItem
	resultQueue chan WorkResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker propagates the photons of one work item at a time
type Worker struct {
	ID          int
	scene       *scene.Scene
	config      photon.Config
	logger      core.Logger
	trace       photon.TraceSink
	output      *batch
	taskQueue   chan WorkItem
	resultQueue chan WorkResult
}

// newWorkerPool creates a worker pool with room for maxItems queued work items
func newWorkerPool(s *scene.Scene, config photon.Config, output *batch, maxItems, numWorkers int, logger core.Logger, trace photon.TraceSink) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan WorkItem, maxItems),
		resultQueue: make(chan WorkResult, maxItems),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			scene:       s,
			config:      config,
			logger:      logger,
			trace:       trace,
			output:      output,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers. Items taken after ctx is done are skipped.
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop waits for queued items to drain and shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask queues a work item
func (wp *WorkerPool) SubmitTask(item WorkItem) {
	wp.taskQueue <- item
}

// GetResult retrieves a completed work item result
func (wp *WorkerPool) GetResult() (WorkResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for item := range w.taskQueue {
		if err := ctx.Err(); err != nil {
			w.resultQueue <- WorkResult{WorkItemID: item.ID, Error: err}
			continue
		}

		w.propagate(item)
		w.resultQueue <- WorkResult{WorkItemID: item.ID}
	}
}

// propagate runs every photon of the item to completion. The propagator,
// with its random stream and intersection scratch space, lives for one item.
func (w *Worker) propagate(item WorkItem) {
	p := photon.NewPropagator(w.scene, core.NewRandom(item.Seed), w.config, w.logger)
	p.SetTraceSink(w.trace)

	for i := item.First; i < item.First+item.Count; i++ {
		w.output.outcomes[i] = p.Propagate(i, &w.output.photons[i], w.output.log.Window(i))
	}
}
