// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package statemachine

import (
	"fmt"
)

// StepState is the lifecycle position of a single plan step.
type StepState int64

const (
	Pending StepState = iota
	Running
	Done
	Failed
)

func (s StepState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

func (s StepState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StateMachine tracks one StepState per step of a plan.
// Valid transitions are Pending->Running, Running->Done,
// Running->Failed and Pending->Failed.
type StateMachine struct {
	states []StepState
}

func NewStateMachine(numSteps int) (*StateMachine, error) {
	if numSteps <= 0 {
		return nil, fmt.Errorf("state machine needs at least one step, got %d", numSteps)
	}
	return &StateMachine{
		states: make([]StepState, numSteps),
	}, nil
}

func (sm *StateMachine) Len() int {
	return len(sm.states)
}

func (sm *StateMachine) State(index int) (StepState, error) {
	if index < 0 || index >= len(sm.states) {
		return Pending, fmt.Errorf("invalid state machine index %d", index)
	}
	return sm.states[index], nil
}

func (sm *StateMachine) Start(index int) error {
	return sm.transition(index, Running, Pending)
}

func (sm *StateMachine) Complete(index int) error {
	return sm.transition(index, Done, Running)
}

func (sm *StateMachine) Fail(index int) error {
	return sm.transition(index, Failed, Pending, Running)
}

// Count returns how many steps are currently in [state]
func (sm *StateMachine) Count(state StepState) int {
	n := 0
	for _, s := range sm.states {
		if s == state {
			n++
		}
	}
	return n
}

func (sm *StateMachine) transition(index int, to StepState, from ...StepState) error {
	current, err := sm.State(index)
	if err != nil {
		return err
	}
	for _, f := range from {
		if current == f {
			sm.states[index] = to
			return nil
		}
	}
	return fmt.Errorf("invalid transition for step %d: %s -> %s", index, current, to)
}
