package phase

import (
	"context"
	"fmt"

	"github.com/qmuntal/stateless"
)

// RunState is the macro lifecycle of a single verification run, as
// opposed to Phase which tracks an individual node. It wraps the
// fine-grained per-node Map in a small, guarded state machine so the
// top-level orchestrator (section 2's "Flow") cannot, for example,
// start draining deferred function expressions before the directive
// fixpoint has settled.
//
// A per-node Phase map is deliberately NOT modeled this way: thousands
// of nodes transition every round, the transitions are driven by
// subverifier logic rather than a fixed guarded graph, and Defer's
// phase-less majority case doesn't fit a named-event FSM. RunState
// exists for the one coarse, low-cardinality lifecycle the orchestrator
// itself follows.
type RunState string

const (
	RunIdle             RunState = "Idle"
	RunDeclaring        RunState = "Declaring"
	RunFixingPoint      RunState = "FixingPoint"
	RunDrainingDeferred RunState = "DrainingDeferred"
	RunFlushed          RunState = "Flushed"
)

// RunEvent triggers a RunState transition.
type RunEvent string

const (
	EventBegin                 RunEvent = "begin"
	EventPackagesDeclared      RunEvent = "packages_declared"
	EventDirectivesSettled     RunEvent = "directives_settled"
	EventFunctionBodiesDrained RunEvent = "function_bodies_drained"
	EventFlush                 RunEvent = "flush"
)

// RunMachine drives the orchestrator's macro lifecycle.
type RunMachine struct {
	sm *stateless.StateMachine
}

// NewRunMachine creates a run machine starting at RunIdle.
func NewRunMachine() *RunMachine {
	sm := stateless.NewStateMachine(RunIdle)
	m := &RunMachine{sm: sm}
	m.configure()
	return m
}

func (m *RunMachine) configure() {
	m.sm.Configure(RunIdle).
		Permit(EventBegin, RunDeclaring)

	m.sm.Configure(RunDeclaring).
		Permit(EventPackagesDeclared, RunFixingPoint)

	m.sm.Configure(RunFixingPoint).
		Permit(EventDirectivesSettled, RunDrainingDeferred)

	m.sm.Configure(RunDrainingDeferred).
		Permit(EventFunctionBodiesDrained, RunFlushed)

	m.sm.Configure(RunFlushed).
		PermitReentry(EventFlush)
}

// Fire triggers a transition.
func (m *RunMachine) Fire(event RunEvent) error {
	if err := m.sm.FireCtx(context.Background(), event); err != nil {
		return fmt.Errorf("phase: run lifecycle rejected %s: %w", event, err)
	}
	return nil
}

// State returns the current RunState.
func (m *RunMachine) State() RunState {
	s := m.sm.MustState()
	if rs, ok := s.(RunState); ok {
		return rs
	}
	return RunIdle
}
