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

func newDecoratorNode(typeStr string, cfg NodeConfig, child *TreeNode, tick TickFn, halt HaltFn) *TreeNode {
	n := NewTreeNode(typeStr, typeStr, NodeTypeDecorator, CategoryDecorator, cfg, tick, nil, halt)
	n.Children = []*TreeNode{child}
	return n
}

func haltChildDecorator(ctx context.Context, child *TreeNode) { HaltChild(ctx, child) }

// NewInverterNode builds "Inverter": swaps Success/Failure, passes
// Running/Skipped through unchanged.
func NewInverterNode(cfg NodeConfig, child *TreeNode) *TreeNode {
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		status, err := child.ExecuteTick(ctx)
		if err != nil {
			return Failure, err
		}
		switch status {
		case Success:
			return Failure, nil
		case Failure:
			return Success, nil
		default:
			return status, nil
		}
	}
	return newDecoratorNode("Inverter", cfg, child, tick, func(ctx context.Context, n *TreeNode) { haltChildDecorator(ctx, child) })
}

// NewForceSuccessNode builds "ForceSuccess": maps any non-Running result to
// Success.
func NewForceSuccessNode(cfg NodeConfig, child *TreeNode) *TreeNode {
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		status, err := child.ExecuteTick(ctx)
		if err != nil {
			return Failure, err
		}
		if status == Running {
			return Running, nil
		}
		return Success, nil
	}
	return newDecoratorNode("ForceSuccess", cfg, child, tick, func(ctx context.Context, n *TreeNode) { haltChildDecorator(ctx, child) })
}

// NewForceFailureNode builds "ForceFailure": maps any non-Running result to
// Failure.
func NewForceFailureNode(cfg NodeConfig, child *TreeNode) *TreeNode {
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		status, err := child.ExecuteTick(ctx)
		if err != nil {
			return Failure, err
		}
		if status == Running {
			return Running, nil
		}
		return Failure, nil
	}
	return newDecoratorNode("ForceFailure", cfg, child, tick, func(ctx context.Context, n *TreeNode) { haltChildDecorator(ctx, child) })
}

// NewKeepRunningUntilFailureNode builds "KeepRunningUntilFailure": maps
// child Success to Running; Failure/Running pass through.
func NewKeepRunningUntilFailureNode(cfg NodeConfig, child *TreeNode) *TreeNode {
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		status, err := child.ExecuteTick(ctx)
		if err != nil {
			return Failure, err
		}
		if status == Success {
			return Running, nil
		}
		return status, nil
	}
	return newDecoratorNode("KeepRunningUntilFailure", cfg, child, tick, func(ctx context.Context, n *TreeNode) { haltChildDecorator(ctx, child) })
}

type repeatState struct {
	count       int
	numCycles   int
	initialized bool
}

// RepeatPorts is the Ports() function for the builtin Repeat decorator.
func RepeatPorts() PortsList {
	return Ports(Port{Name: "num_cycles", Info: InputPortInfo("int", "number of Success completions required")})
}

// NewRepeatNode builds "Repeat(n)": ticks the child up to n Success
// completions, short-circuiting on the first Failure; Running in between. n
// is read from the "num_cycles" input port on first tick (after the factory
// has bound ports onto cfg).
func NewRepeatNode(cfg NodeConfig, child *TreeNode) *TreeNode {
	state := &repeatState{}
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		if !state.initialized {
			numCycles, err := GetInput[int](&n.Config, "num_cycles")
			if err != nil {
				return Failure, err
			}
			state.numCycles = numCycles
			state.initialized = true
		}
		if n.Status != Running {
			state.count = 0
		}
		for state.count < state.numCycles {
			status, err := child.ExecuteTick(ctx)
			if err != nil {
				return Failure, err
			}
			switch status {
			case Running:
				return Running, nil
			case Failure:
				state.count = 0
				return Failure, nil
			case Success, Skipped:
				state.count++
				if state.count < state.numCycles {
					return Running, nil
				}
			}
		}
		state.count = 0
		return Success, nil
	}
	halt := func(ctx context.Context, n *TreeNode) {
		haltChildDecorator(ctx, child)
		state.count = 0
	}
	return newDecoratorNode("Repeat", cfg, child, tick, halt)
}

type retryState struct {
	count       int
	numAttempts int
	initialized bool
}

// RetryPorts is the Ports() function for the builtin Retry decorator.
func RetryPorts() PortsList {
	return Ports(Port{Name: "num_attempts", Info: InputPortInfo("int", "number of Failure attempts tolerated")})
}

// NewRetryNode builds "Retry(n)": dual of Repeat with Failure/Success
// swapped; the first Success short-circuits. n is read from the
// "num_attempts" input port on first tick.
func NewRetryNode(cfg NodeConfig, child *TreeNode) *TreeNode {
	state := &retryState{}
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		if !state.initialized {
			numAttempts, err := GetInput[int](&n.Config, "num_attempts")
			if err != nil {
				return Failure, err
			}
			state.numAttempts = numAttempts
			state.initialized = true
		}
		if n.Status != Running {
			state.count = 0
		}
		for state.count < state.numAttempts {
			status, err := child.ExecuteTick(ctx)
			if err != nil {
				return Failure, err
			}
			switch status {
			case Running:
				return Running, nil
			case Success:
				state.count = 0
				return Success, nil
			case Failure, Skipped:
				state.count++
				if state.count < state.numAttempts {
					return Running, nil
				}
			}
		}
		state.count = 0
		return Failure, nil
	}
	halt := func(ctx context.Context, n *TreeNode) {
		haltChildDecorator(ctx, child)
		state.count = 0
	}
	return newDecoratorNode("Retry", cfg, child, tick, halt)
}

type runOnceState struct {
	done   bool
	result NodeStatus
}

// NewRunOnceNode builds "RunOnce": ticks the child exactly once across the
// life of the node; every subsequent tick returns the cached terminal
// result without invoking the child again.
func NewRunOnceNode(cfg NodeConfig, child *TreeNode) *TreeNode {
	state := &runOnceState{}
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		if state.done {
			return state.result, nil
		}
		status, err := child.ExecuteTick(ctx)
		if err != nil {
			return Failure, err
		}
		if status == Running {
			return Running, nil
		}
		state.done = true
		state.result = status
		return status, nil
	}
	halt := func(ctx context.Context, n *TreeNode) {
		if !state.done {
			haltChildDecorator(ctx, child)
		}
	}
	return newDecoratorNode("RunOnce", cfg, child, tick, halt)
}
