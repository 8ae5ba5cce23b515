package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"upside-down-research.com/oss/stratagem/internal/goap"
)

// Status is the lifecycle state of a run.
type Status string

const (
	// StatusRunning means the run can accept another tick.
	StatusRunning Status = "running"
	// StatusWaiting means an action needs externally supplied input; the
	// run resumes once Resume delivers it.
	StatusWaiting Status = "waiting"
	// StatusCompleted means the active goal is satisfied.
	StatusCompleted Status = "completed"
	// StatusFailed means an action's execution returned an unrecoverable
	// error.
	StatusFailed Status = "failed"
	// StatusStuck means no plan exists for the active goal and no alternate
	// goal is eligible.
	StatusStuck Status = "stuck"
	// StatusTerminated means a termination policy fired; the reason names
	// the policy. A deliberate stop, not a failure.
	StatusTerminated Status = "terminated"
)

// Terminal reports whether a run in this status will never tick again.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusStuck, StatusTerminated:
		return true
	default:
		return false
	}
}

// PendingInputKey is the reserved blackboard name under which a run retains
// its outstanding input request while Waiting.
const PendingInputKey = "__pending_input"

// InputRequest is returned (as an error) by an executor whose action needs
// externally supplied input before the run can continue. Key names the
// blackboard entry the answer will be bound under.
type InputRequest struct {
	Key    string
	Prompt string
}

func (r *InputRequest) Error() string {
	return fmt.Sprintf("awaiting external input for %q: %s", r.Key, r.Prompt)
}

// Executor performs an action's real side effect: an LLM call, a tool, or
// pure logic. The loop treats it as opaque — it either succeeds, fails, or
// reports an InputRequest. Effects on the blackboard are the executor's
// business; the loop re-derives the world state afterwards rather than
// trusting the declared effects.
type Executor interface {
	ExecuteAction(ctx context.Context, board *Blackboard, action goap.Action) error
}

// ExecutorFunc adapts a function into an Executor.
type ExecutorFunc func(ctx context.Context, board *Blackboard, action goap.Action) error

func (f ExecutorFunc) ExecuteAction(ctx context.Context, board *Blackboard, action goap.Action) error {
	return f(ctx, board, action)
}

// ApplyEffectsExecutor binds each declared effect of the action onto the
// blackboard as a boolean (Unknown effects unbind the name). Useful for
// simulation, tests and the CLI runner, where the declared effects are the
// whole side effect.
func ApplyEffectsExecutor() Executor {
	return ExecutorFunc(func(ctx context.Context, board *Blackboard, action goap.Action) error {
		for name, det := range action.Effects() {
			switch det {
			case goap.True:
				board.Bind(name, true)
			case goap.False:
				board.Bind(name, false)
			default:
				board.Unbind(name)
			}
		}
		return nil
	})
}

// Process is one agent run: a state machine driven by repeated Tick calls.
// Tick is not re-entrant; a single goroutine owns the run. The status field
// is mutex-guarded so another goroutine may poll it.
type Process struct {
	id         string
	goals      []*goap.Goal
	planner    *goap.Planner
	determiner *StateDeterminer
	board      *Blackboard
	executor   Executor
	policies   []TerminationPolicy
	journal    Journal

	mu      sync.Mutex
	status  Status
	reason  string
	history History
	pending *InputRequest
}

// NewProcess creates a run over the given planner, determiner, blackboard
// and executor. Goals are tried in the order added: the first is the active
// goal, the rest are alternates when no plan exists for it.
func NewProcess(planner *goap.Planner, determiner *StateDeterminer, board *Blackboard, executor Executor) *Process {
	return &Process{
		id:         uuid.New().String(),
		planner:    planner,
		determiner: determiner,
		board:      board,
		executor:   executor,
		journal:    NopJournal{},
		status:     StatusRunning,
	}
}

// AddGoal appends a goal in preference order.
func (p *Process) AddGoal(goal *goap.Goal) {
	p.goals = append(p.goals, goal)
}

// AddPolicy appends a termination policy.
func (p *Process) AddPolicy(policy TerminationPolicy) {
	p.policies = append(p.policies, policy)
}

// SetJournal replaces the run journal. Passing nil restores the no-op
// journal.
func (p *Process) SetJournal(j Journal) {
	if j == nil {
		j = NopJournal{}
	}
	p.journal = j
}

// ID returns the run's identifier.
func (p *Process) ID() string { return p.id }

// Blackboard returns the board this run observes and mutates.
func (p *Process) Blackboard() *Blackboard { return p.board }

// Status returns the run's current status. Safe to call from any goroutine.
func (p *Process) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Reason returns why the run stopped, when it did.
func (p *Process) Reason() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reason
}

// History returns a copy of the run's counters.
func (p *Process) History() History {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history
}

// PendingInput returns the outstanding input request while Waiting, or nil.
func (p *Process) PendingInput() *InputRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

func (p *Process) setStatus(s Status, reason string) {
	p.mu.Lock()
	p.status = s
	p.reason = reason
	p.mu.Unlock()
}

// Tick performs exactly one step of the run: evaluate termination policies,
// derive the current world state, plan for the active goal (falling back
// through alternates), and execute the first action of the plan. Re-planning
// happens on every tick because executing an action may resolve conditions
// the previous plan assumed Unknown.
func (p *Process) Tick(ctx context.Context) Status {
	if s := p.Status(); s != StatusRunning {
		return s
	}

	started := time.Now()
	p.mu.Lock()
	p.history.Ticks++
	tick := p.history.Ticks
	hist := p.history
	p.mu.Unlock()

	for _, policy := range p.policies {
		if policy.ShouldStop(hist) {
			reason := policy.Name()
			log.Info("Termination policy fired", "runID", p.id, "policy", reason)
			p.setStatus(StatusTerminated, reason)
			p.journal.Record(TickRecord{Tick: tick, Status: StatusTerminated, Error: reason, DurationMS: time.Since(started).Milliseconds()})
			p.closeJournal()
			return StatusTerminated
		}
	}

	state := p.determiner.Determine(p.board)
	log.Debug("Derived world state", "runID", p.id, "state", state.Key())

	for _, goal := range p.goals {
		if goal.IsSatisfied(state) {
			log.Info("Goal satisfied", "runID", p.id, "goal", goal.Name())
			p.setStatus(StatusCompleted, fmt.Sprintf("goal %s satisfied", goal.Name()))
			p.journal.Record(TickRecord{Tick: tick, Status: StatusCompleted, Goal: goal.Name(), DurationMS: time.Since(started).Milliseconds()})
			p.closeJournal()
			return StatusCompleted
		}

		plan := p.planner.FindPlan(state, goal)
		if plan == nil {
			// No plan for this goal; an alternate may still be eligible.
			continue
		}

		action, ok := plan.First()
		if !ok {
			// FindPlan returns an empty plan only for a satisfied goal,
			// which was handled above.
			continue
		}

		return p.executeStep(ctx, tick, started, goal, plan, action)
	}

	log.Warn("No plan for any goal", "runID", p.id, "goals", len(p.goals))
	p.setStatus(StatusStuck, "no plan found for any goal")
	p.journal.Record(TickRecord{Tick: tick, Status: StatusStuck, DurationMS: time.Since(started).Milliseconds()})
	p.closeJournal()
	return StatusStuck
}

func (p *Process) executeStep(ctx context.Context, tick int, started time.Time, goal *goap.Goal, plan *goap.Plan, action goap.Action) Status {
	log.Info("Executing action",
		"runID", p.id,
		"goal", goal.Name(),
		"action", action.Name(),
		"planLength", plan.Len(),
		"planCost", plan.Cost())

	err := p.executor.ExecuteAction(ctx, p.board, action)

	var req *InputRequest
	if errors.As(err, &req) {
		log.Info("Run waiting for external input", "runID", p.id, "key", req.Key)
		p.board.Bind(PendingInputKey, req)
		p.mu.Lock()
		p.pending = req
		p.status = StatusWaiting
		p.reason = req.Error()
		p.mu.Unlock()
		p.journal.Record(TickRecord{
			Tick: tick, Status: StatusWaiting, Goal: goal.Name(), Action: action.Name(),
			PlanLength: plan.Len(), PlanCost: plan.Cost(),
			Error: req.Error(), DurationMS: time.Since(started).Milliseconds(),
		})
		return StatusWaiting
	}

	if err != nil {
		log.Error("Action execution failed", "runID", p.id, "action", action.Name(), "error", err)
		p.setStatus(StatusFailed, fmt.Sprintf("action %s failed: %v", action.Name(), err))
		p.journal.Record(TickRecord{
			Tick: tick, Status: StatusFailed, Goal: goal.Name(), Action: action.Name(),
			PlanLength: plan.Len(), PlanCost: plan.Cost(),
			Error: err.Error(), DurationMS: time.Since(started).Milliseconds(),
		})
		p.closeJournal()
		return StatusFailed
	}

	p.mu.Lock()
	p.history.ActionsExecuted++
	p.history.CostSpent += action.Cost()
	p.history.LastAction = action.Name()
	p.mu.Unlock()

	p.journal.Record(TickRecord{
		Tick: tick, Status: StatusRunning, Goal: goal.Name(), Action: action.Name(),
		PlanLength: plan.Len(), PlanCost: plan.Cost(),
		DurationMS: time.Since(started).Milliseconds(),
	})
	return StatusRunning
}

// Run ticks until the run reaches a terminal status or Waiting, or the
// context is canceled. Cancellation is cooperative: the loop simply stops
// ticking and marks the run terminated.
func (p *Process) Run(ctx context.Context) Status {
	for {
		select {
		case <-ctx.Done():
			if !p.Status().Terminal() {
				p.setStatus(StatusTerminated, fmt.Sprintf("context canceled: %v", ctx.Err()))
				p.closeJournal()
			}
			return p.Status()
		default:
		}

		status := p.Tick(ctx)
		if status != StatusRunning {
			return status
		}
	}
}

// Resume delivers externally supplied input to a Waiting run: the answer is
// bound under the pending request's key, the pending marker is cleared and
// the run goes back to Running. It is an error to resume a run that is not
// Waiting.
func (p *Process) Resume(answer interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status != StatusWaiting {
		return fmt.Errorf("cannot resume run in status %s", p.status)
	}
	if p.pending == nil {
		return errors.New("waiting run has no pending input request")
	}

	p.board.Bind(p.pending.Key, answer)
	p.board.Unbind(PendingInputKey)
	log.Info("Run resumed with external input", "runID", p.id, "key", p.pending.Key)

	p.pending = nil
	p.status = StatusRunning
	p.reason = ""
	return nil
}

func (p *Process) closeJournal() {
	p.mu.Lock()
	status, reason := p.status, p.reason
	p.mu.Unlock()

	if err := p.journal.Close(status, reason); err != nil {
		log.Warn("Failed to close run journal", "runID", p.id, "error", err)
	}
}
