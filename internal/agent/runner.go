package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Runner owns a set of concurrently executing processes, one worker
// goroutine per run. Runs share nothing but their (read-only) action and
// goal definitions, so a waiting or long-running run never starves the
// others.
type Runner struct {
	mu     sync.Mutex
	procs  map[string]*Process
	active map[string]bool // run IDs with a live worker goroutine
	wg     sync.WaitGroup
}

// NewRunner creates an empty Runner.
func NewRunner() *Runner {
	return &Runner{
		procs:  make(map[string]*Process),
		active: make(map[string]bool),
	}
}

// Start launches a worker driving the process until it stops running.
// A Waiting run's worker returns; once it has exited (Wait blocks until
// then), Resume the run and call Start again to keep driving it. Worker
// liveness is tracked per run ID, not by run status, so a resumed run is
// startable even though Resume already flipped it back to Running.
func (r *Runner) Start(ctx context.Context, proc *Process) error {
	r.mu.Lock()
	if r.active[proc.ID()] {
		r.mu.Unlock()
		return fmt.Errorf("process %s already has an active worker", proc.ID())
	}
	r.procs[proc.ID()] = proc
	r.active[proc.ID()] = true
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		status := proc.Run(ctx)

		r.mu.Lock()
		delete(r.active, proc.ID())
		r.mu.Unlock()

		log.Info("Run finished", "runID", proc.ID(), "status", status, "reason", proc.Reason())
	}()
	return nil
}

// Get returns a tracked process by run ID.
func (r *Runner) Get(runID string) (*Process, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	proc, ok := r.procs[runID]
	return proc, ok
}

// Processes returns every tracked process.
func (r *Runner) Processes() []*Process {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Process, 0, len(r.procs))
	for _, proc := range r.procs {
		out = append(out, proc)
	}
	return out
}

// Wait blocks until every started worker has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}
