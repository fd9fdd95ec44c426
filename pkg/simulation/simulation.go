package simulation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/photon"
	"github.com/df07/go-photon-transport/pkg/scene"
	"github.com/google/uuid"
)

// ErrInvalidPhoton is wrapped when an initial photon does not fit the scene
var ErrInvalidPhoton = errors.New("invalid photon")

// Simulation propagates a batch of photons through a scene in parallel
type Simulation struct {
	scene   *scene.Scene
	photons []photon.Photon
	config  Config
	logger  core.Logger
	trace   photon.TraceSink
}

// Result holds everything a run produced. Photons, Outcomes and the log
// windows are indexed like the initial photons.
type Result struct {
	RunID        uuid.UUID
	Photons      []photon.Photon // Final photon states, all with weight 0
	Outcomes     []photon.Outcome
	Log          *photon.Log
	Terminations map[photon.Termination]int
	WorkItems    int
	Completed    int // Work items run to completion
	Duration     time.Duration
}

// New checks the configuration and the initial photons against the scene.
// The photons are copied; the caller's slice is left untouched.
func New(s *scene.Scene, photons []photon.Photon, config Config, logger core.Logger) (*Simulation, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil scene", scene.ErrInvalidScene)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	for i := range photons {
		p := &photons[i]
		if p.SolidID != scene.NoSolidID && !s.HasSolid(p.SolidID) {
			return nil, fmt.Errorf("%w: photon %d is in unknown solid %d", ErrInvalidPhoton, i, p.SolidID)
		}
		if p.MaterialID < 0 || p.MaterialID >= len(s.Materials) {
			return nil, fmt.Errorf("%w: photon %d has unknown material %d", ErrInvalidPhoton, i, p.MaterialID)
		}
		if p.Direction.IsZero() {
			return nil, fmt.Errorf("%w: photon %d has no direction", ErrInvalidPhoton, i)
		}
	}

	if logger == nil {
		logger = core.NopLogger{}
	}

	return &Simulation{
		scene:   s,
		photons: slices.Clone(photons),
		config:  config,
		logger:  logger,
	}, nil
}

// SetTraceSink installs a sink receiving every photon state transition.
// Workers call it concurrently, so it must be safe for concurrent use.
func (sim *Simulation) SetTraceSink(sink photon.TraceSink) {
	sim.trace = sink
}

// WorkItems splits the photons into contiguous work items, one seed each
func (sim *Simulation) WorkItems() []WorkItem {
	n := len(sim.photons)
	size := sim.config.PhotonsPerWorkItem
	count := (n + size - 1) / size

	var seeds []uint32
	if sim.config.Seed == 0 {
		seeds = core.RandomSeeds(count)
	} else {
		seeds = core.NewSeeds(count, sim.config.Seed)
	}

	items := make([]WorkItem, count)
	for i := range items {
		first := i * size
		items[i] = WorkItem{
			ID:    i,
			First: first,
			Count: min(size, n-first),
			Seed:  seeds[i],
		}
	}
	return items
}

// Run propagates every photon until its weight is 0. Cancelling ctx stops
// workers from starting further work items; items already running finish.
// A cancelled run returns the partial result together with ctx's error.
func (sim *Simulation) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	items := sim.WorkItems()

	output := &batch{
		photons:  slices.Clone(sim.photons),
		outcomes: make([]photon.Outcome, len(sim.photons)),
		log:      photon.NewLog(len(sim.photons), sim.config.MaxInteractions),
	}
	result := &Result{
		RunID:        uuid.New(),
		Photons:      output.photons,
		Outcomes:     output.outcomes,
		Log:          output.log,
		Terminations: make(map[photon.Termination]int),
		WorkItems:    len(items),
	}

	pool := newWorkerPool(sim.scene, sim.config.Photon, output, len(items), sim.config.Workers, sim.logger, sim.trace)

	sim.logger.Printf("Run %s: %d photons in %d work items (using %d workers)...\n",
		result.RunID, len(sim.photons), len(items), pool.GetNumWorkers())

	pool.Start(ctx)
	for _, item := range items {
		pool.SubmitTask(item)
	}
	pool.Stop()

	var runErr error
	for {
		workResult, ok := pool.GetResult()
		if !ok {
			break
		}
		if workResult.Error != nil {
			runErr = workResult.Error
			continue
		}
		result.Completed++

		item := items[workResult.WorkItemID]
		for _, outcome := range output.outcomes[item.First : item.First+item.Count] {
			result.Terminations[outcome.Termination]++
		}
	}

	result.Duration = time.Since(startTime)
	if runErr != nil {
		sim.logger.Printf("Run %s cancelled after %d of %d work items\n", result.RunID, result.Completed, len(items))
		return result, runErr
	}

	sim.logger.Printf("Run %s completed in %v\n", result.RunID, result.Duration)
	return result, nil
}
