/*
   Copyright 2026 Ridgewood Robotics

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package bht

import "context"

// indexState is the shared bookkeeping for the index-remembering
// composites (Sequence, SequenceStar, Fallback): which child to resume
// ticking from.
type indexState struct{ index int }

// newControlNode is the common constructor shared by every builtin control
// node below: same shape as the teacher's n.group() (pabt's util.go),
// generalized to carry an arbitrary tick closure instead of only
// bt.Sequence/bt.Selector.
func newControlNode(typeStr string, cfg NodeConfig, children []*TreeNode, tick TickFn, halt HaltFn) *TreeNode {
	n := NewTreeNode(typeStr, typeStr, NodeTypeControl, CategoryControl, cfg, tick, nil, halt)
	n.Children = children
	return n
}

func haltAllChildren(ctx context.Context, children []*TreeNode) {
	for _, c := range children {
		HaltChild(ctx, c)
	}
}

// NewSequenceNode builds "Sequence": ticks children from a remembered index
// onward; Success advances the index; Failure or reaching the end resets
// it; a Running child is resumed from next tick. See spec §4.3.
func NewSequenceNode(cfg NodeConfig, children []*TreeNode) *TreeNode {
	state := &indexState{}
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		if n.Status != Running {
			state.index = 0
		}
		for state.index < len(children) {
			status, err := children[state.index].ExecuteTick(ctx)
			if err != nil {
				return Failure, err
			}
			switch status {
			case Running:
				return Running, nil
			case Success, Skipped:
				state.index++
			case Failure:
				state.index = 0
				return Failure, nil
			}
		}
		state.index = 0
		return Success, nil
	}
	halt := func(ctx context.Context, n *TreeNode) {
		haltAllChildren(ctx, children)
		state.index = 0
	}
	return newControlNode("Sequence", cfg, children, tick, halt)
}

// NewSequenceStarNode builds "SequenceStar" (SequenceWithMemory): like
// Sequence, but a Failure does NOT rewind the remembered index — only an
// explicit Halt does. See DESIGN.md Open Question decision.
func NewSequenceStarNode(cfg NodeConfig, children []*TreeNode) *TreeNode {
	state := &indexState{}
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		for state.index < len(children) {
			status, err := children[state.index].ExecuteTick(ctx)
			if err != nil {
				return Failure, err
			}
			switch status {
			case Running:
				return Running, nil
			case Success, Skipped:
				state.index++
			case Failure:
				return Failure, nil
			}
		}
		state.index = 0
		return Success, nil
	}
	halt := func(ctx context.Context, n *TreeNode) {
		haltAllChildren(ctx, children)
		state.index = 0
	}
	return newControlNode("SequenceStar", cfg, children, tick, halt)
}

// NewReactiveSequenceNode builds "ReactiveSequence": re-evaluates from the
// first child every tick, halting any sibling that was left Running at a
// higher index as soon as a lower-index child goes Running instead.
func NewReactiveSequenceNode(cfg NodeConfig, children []*TreeNode) *TreeNode {
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		allSkipped := true
		for i, child := range children {
			status, err := child.ExecuteTick(ctx)
			if err != nil {
				return Failure, err
			}
			switch status {
			case Running:
				for j := i + 1; j < len(children); j++ {
					HaltChild(ctx, children[j])
				}
				return Running, nil
			case Failure:
				haltAllChildren(ctx, children)
				return Failure, nil
			case Success:
				allSkipped = false
			case Skipped:
				// counted neither success nor failure.
			default:
				return Idle, &StatusError{Path: n.Config.Path, Status: status}
			}
		}
		if allSkipped {
			return Skipped, nil
		}
		return Success, nil
	}
	halt := func(ctx context.Context, n *TreeNode) { haltAllChildren(ctx, children) }
	return newControlNode("ReactiveSequence", cfg, children, tick, halt)
}

// NewFallbackNode builds "Fallback": returns the first non-Failure result
// (Running pauses at that index; Success resets and returns), else Failure
// once every child has failed. Mirrors Sequence with Success/Failure
// swapped.
func NewFallbackNode(cfg NodeConfig, children []*TreeNode) *TreeNode {
	state := &indexState{}
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		if n.Status != Running {
			state.index = 0
		}
		for state.index < len(children) {
			status, err := children[state.index].ExecuteTick(ctx)
			if err != nil {
				return Failure, err
			}
			switch status {
			case Running:
				return Running, nil
			case Failure, Skipped:
				state.index++
			case Success:
				state.index = 0
				return Success, nil
			}
		}
		state.index = 0
		return Failure, nil
	}
	halt := func(ctx context.Context, n *TreeNode) {
		haltAllChildren(ctx, children)
		state.index = 0
	}
	return newControlNode("Fallback", cfg, children, tick, halt)
}

// NewReactiveFallbackNode builds "ReactiveFallback": mirror of
// ReactiveSequence with Success/Failure swapped; a Skipped child is halted
// immediately (it has nothing left to contribute this round).
func NewReactiveFallbackNode(cfg NodeConfig, children []*TreeNode) *TreeNode {
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		allSkipped := true
		for i, child := range children {
			status, err := child.ExecuteTick(ctx)
			if err != nil {
				return Failure, err
			}
			switch status {
			case Running:
				for j := i + 1; j < len(children); j++ {
					HaltChild(ctx, children[j])
				}
				return Running, nil
			case Success:
				haltAllChildren(ctx, children)
				return Success, nil
			case Failure:
				allSkipped = false
			case Skipped:
				HaltChild(ctx, child)
			default:
				return Idle, &StatusError{Path: n.Config.Path, Status: status}
			}
		}
		if allSkipped {
			return Skipped, nil
		}
		return Failure, nil
	}
	halt := func(ctx context.Context, n *TreeNode) { haltAllChildren(ctx, children) }
	return newControlNode("ReactiveFallback", cfg, children, tick, halt)
}

// parallelState tracks, per child index, the terminal status it last
// reported (Idle meaning "still pending / not yet completed this round").
type parallelState struct {
	done                               []NodeStatus
	successThreshold, failureThreshold int
	initialized                        bool
}

// ParallelPorts is the Ports() function for the builtin Parallel control
// node.
func ParallelPorts() PortsList {
	return Ports(
		Port{Name: "success_count", Info: InputPortInfo("int", "successes required to report Success")},
		Port{Name: "failure_count", Info: InputPortInfo("int", "failures required to report Failure")},
	)
}

// NewParallelNode builds "Parallel(success_count, failure_count)": ticks
// every non-completed child every round, completing as soon as enough
// successes or failures have accumulated. The thresholds are read from the
// "success_count"/"failure_count" input ports on first tick.
func NewParallelNode(cfg NodeConfig, children []*TreeNode) *TreeNode {
	state := &parallelState{done: make([]NodeStatus, len(children))}
	reset := func() {
		for i := range state.done {
			state.done[i] = Idle
		}
	}
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		if !state.initialized {
			sc, err := GetInput[int](&n.Config, "success_count")
			if err != nil {
				return Failure, err
			}
			fc, err := GetInput[int](&n.Config, "failure_count")
			if err != nil {
				return Failure, err
			}
			state.successThreshold = sc
			state.failureThreshold = fc
			state.initialized = true
		}
		if n.Status != Running {
			reset()
		}
		successCount, failureCount := 0, 0
		for i, child := range children {
			if state.done[i] != Idle {
				if state.done[i] == Success {
					successCount++
				} else if state.done[i] == Failure {
					failureCount++
				}
				continue
			}
			status, err := child.ExecuteTick(ctx)
			if err != nil {
				return Failure, err
			}
			switch status {
			case Success:
				state.done[i] = Success
				successCount++
			case Failure:
				state.done[i] = Failure
				failureCount++
			case Skipped:
				state.done[i] = Skipped
			case Running:
				// still pending
			}
		}
		total := len(children)
		switch {
		case successCount >= state.successThreshold:
			haltAllChildren(ctx, children)
			reset()
			return Success, nil
		case failureCount > total-state.successThreshold || failureCount >= state.failureThreshold:
			haltAllChildren(ctx, children)
			reset()
			return Failure, nil
		default:
			return Running, nil
		}
	}
	halt := func(ctx context.Context, n *TreeNode) {
		haltAllChildren(ctx, children)
		reset()
	}
	return newControlNode("Parallel", cfg, children, tick, halt)
}

// NewParallelAllNode builds "ParallelAll": ticks every child, every round,
// unconditionally (no short-circuit on first failure); completes on the
// first round in which no child returns Running, with Success iff no child
// returned Failure in that round. Results from earlier rounds are not kept.
func NewParallelAllNode(cfg NodeConfig, children []*TreeNode) *TreeNode {
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		statuses := make([]NodeStatus, len(children))
		for i, child := range children {
			status, err := child.ExecuteTick(ctx)
			if err != nil {
				return Failure, err
			}
			statuses[i] = status
		}
		allTerminal, anyFailure := true, false
		for _, s := range statuses {
			if s == Running {
				allTerminal = false
			}
			if s == Failure {
				anyFailure = true
			}
		}
		if !allTerminal {
			return Running, nil
		}
		if anyFailure {
			return Failure, nil
		}
		return Success, nil
	}
	halt := func(ctx context.Context, n *TreeNode) { haltAllChildren(ctx, children) }
	return newControlNode("ParallelAll", cfg, children, tick, halt)
}

// branchState tracks which branch (its index in children: 1 = then,
// 2 = else) is mid-flight, so
// IfThenElse can resume a Running branch without re-evaluating the
// condition, and WhileDoElse can tell when the condition flipped out from
// under a Running branch.
type branchState struct{ branch int } // 0 = none

// NewIfThenElseNode builds "IfThenElse". 2 or 3 children: condition,
// then[, else]. The condition is re-ticked only when no branch is mid-flight.
func NewIfThenElseNode(cfg NodeConfig, children []*TreeNode) *TreeNode {
	state := &branchState{}
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		if state.branch != 0 {
			status, err := children[state.branch].ExecuteTick(ctx)
			if err != nil {
				return Failure, err
			}
			if status == Running {
				return Running, nil
			}
			state.branch = 0
			return status, nil
		}
		condStatus, err := children[0].ExecuteTick(ctx)
		if err != nil {
			return Failure, err
		}
		switch condStatus {
		case Running:
			return Running, nil
		case Success:
			status, err := children[1].ExecuteTick(ctx)
			if err != nil {
				return Failure, err
			}
			if status == Running {
				state.branch = 1
			}
			return status, nil
		case Failure:
			if len(children) == 3 {
				status, err := children[2].ExecuteTick(ctx)
				if err != nil {
					return Failure, err
				}
				if status == Running {
					state.branch = 2
				}
				return status, nil
			}
			return Failure, nil
		default:
			return condStatus, nil
		}
	}
	halt := func(ctx context.Context, n *TreeNode) {
		haltAllChildren(ctx, children)
		state.branch = 0
	}
	return newControlNode("IfThenElse", cfg, children, tick, halt)
}

// NewWhileDoElseNode builds "WhileDoElse": like IfThenElse, but the
// condition is re-ticked every round even while a branch is Running; if it
// flips, the running branch is halted and the other one takes over.
func NewWhileDoElseNode(cfg NodeConfig, children []*TreeNode) *TreeNode {
	state := &branchState{}
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		condStatus, err := children[0].ExecuteTick(ctx)
		if err != nil {
			return Failure, err
		}
		switch condStatus {
		case Running:
			return Running, nil
		case Success:
			if state.branch == 2 {
				HaltChild(ctx, children[2])
			}
			state.branch = 1
			status, err := children[1].ExecuteTick(ctx)
			if err != nil {
				return Failure, err
			}
			if status != Running {
				state.branch = 0
			}
			return status, nil
		case Failure:
			if state.branch == 1 {
				HaltChild(ctx, children[1])
			}
			if len(children) == 3 {
				state.branch = 2
				status, err := children[2].ExecuteTick(ctx)
				if err != nil {
					return Failure, err
				}
				if status != Running {
					state.branch = 0
				}
				return status, nil
			}
			state.branch = 0
			return Failure, nil
		default:
			return condStatus, nil
		}
	}
	halt := func(ctx context.Context, n *TreeNode) {
		haltAllChildren(ctx, children)
		state.branch = 0
	}
	return newControlNode("WhileDoElse", cfg, children, tick, halt)
}
