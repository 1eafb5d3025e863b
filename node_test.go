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

import (
	"context"
	"errors"
	"testing"
)

func newLeaf(name string, tick TickFn) *TreeNode {
	cfg := NewNodeConfig(NewBlackboard())
	return NewTreeNode(name, name, NodeTypeSyncAction, CategoryAction, cfg, tick, nil, nil)
}

func TestExecuteTickSyncAction(t *testing.T) {
	n := newLeaf("Always", func(ctx context.Context, n *TreeNode) (NodeStatus, error) { return Success, nil })
	status, err := n.ExecuteTick(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != Success {
		t.Fatalf("status = %s, want Success", status)
	}
	if n.Status != Success {
		t.Fatalf("n.Status = %s, want Success", n.Status)
	}
}

func TestExecuteTickRejectsIdleResult(t *testing.T) {
	n := newLeaf("Broken", func(ctx context.Context, n *TreeNode) (NodeStatus, error) { return Idle, nil })
	_, err := n.ExecuteTick(context.Background())
	if err == nil {
		t.Fatal("expected an error for a node returning Idle")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
}

func TestExecuteTickStatefulStartVsRunning(t *testing.T) {
	var started, ticked int
	cfg := NewNodeConfig(NewBlackboard())
	start := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		started++
		return Running, nil
	}
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		ticked++
		return Success, nil
	}
	n := NewTreeNode("Stateful", "Stateful", NodeTypeStatefulAction, CategoryAction, cfg, tick, start, nil)

	if _, err := n.ExecuteTick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if started != 1 || ticked != 0 {
		t.Fatalf("first tick from Idle should invoke start_fn only, got started=%d ticked=%d", started, ticked)
	}
	n.Status = Running
	if _, err := n.ExecuteTick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if started != 1 || ticked != 1 {
		t.Fatalf("re-entry from Running should invoke tick_fn, got started=%d ticked=%d", started, ticked)
	}
}

func TestHaltResetsStatusToIdle(t *testing.T) {
	var haltCalled bool
	cfg := NewNodeConfig(NewBlackboard())
	n := NewTreeNode("X", "X", NodeTypeSyncAction, CategoryAction, cfg,
		func(ctx context.Context, n *TreeNode) (NodeStatus, error) { return Running, nil },
		nil,
		func(ctx context.Context, n *TreeNode) { haltCalled = true })
	n.ExecuteTick(context.Background())
	if n.Status != Running {
		t.Fatalf("expected Running before halt, got %s", n.Status)
	}
	n.Halt(context.Background())
	if !haltCalled {
		t.Error("halt_fn was not invoked")
	}
	if n.Status != Idle {
		t.Fatalf("status after Halt = %s, want Idle", n.Status)
	}
}

func TestHaltChildOnlyHaltsRunning(t *testing.T) {
	var halted bool
	cfg := NewNodeConfig(NewBlackboard())
	child := NewTreeNode("Child", "Child", NodeTypeSyncAction, CategoryAction, cfg,
		func(ctx context.Context, n *TreeNode) (NodeStatus, error) { return Success, nil },
		nil,
		func(ctx context.Context, n *TreeNode) { halted = true })
	HaltChild(context.Background(), child)
	if halted {
		t.Error("HaltChild should not halt a node that is not Running")
	}
	child.Status = Running
	HaltChild(context.Background(), child)
	if !halted {
		t.Error("HaltChild should halt a Running node")
	}
}

func TestVisitPreOrderStability(t *testing.T) {
	leafA := newLeaf("A", func(ctx context.Context, n *TreeNode) (NodeStatus, error) { return Success, nil })
	leafB := newLeaf("B", func(ctx context.Context, n *TreeNode) (NodeStatus, error) { return Failure, nil })
	inverter := NewInverterNode(NewNodeConfig(NewBlackboard()), leafA)
	outer := NewSequenceNode(NewNodeConfig(NewBlackboard()), []*TreeNode{inverter, leafB})
	root := NewSequenceNode(NewNodeConfig(NewBlackboard()), []*TreeNode{outer})

	var before []string
	VisitPreOrder(root, func(n *TreeNode) { before = append(before, n.Name) })

	root.ExecuteTick(context.Background())

	var after []string
	VisitPreOrder(root, func(n *TreeNode) { after = append(after, n.Name) })

	if len(before) != len(after) {
		t.Fatalf("traversal length changed: before=%v after=%v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("traversal order changed at %d: before=%v after=%v", i, before, after)
		}
	}
	want := []string{"Sequence", "Sequence", "Inverter", "A", "B"}
	if len(after) != len(want) {
		t.Fatalf("traversal = %v, want %v", after, want)
	}
	for i := range want {
		if after[i] != want[i] {
			t.Fatalf("traversal[%d] = %q, want %q (full: %v)", i, after[i], want[i], after)
		}
	}
}
