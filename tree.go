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
	"fmt"

	"github.com/xlab/treeprint"
)

// Tree owns the root TreeNode and exposes tick and visit operations, per
// §3.8. It is the synchronous facade of §5: ticking blocks the calling
// goroutine, there is no inherent parallelism across siblings, and ctx is
// used only for cooperative cancellation of the tick loop below.
type Tree struct {
	root       *TreeNode
	blackboard *Blackboard
}

// Root returns the tree's root node.
func (t *Tree) Root() *TreeNode { return t.root }

// Blackboard returns the root blackboard this tree was instantiated with.
func (t *Tree) Blackboard() *Blackboard { return t.blackboard }

// TickOnce ticks the root exactly once and returns whatever status results,
// regardless of it being Running.
func (t *Tree) TickOnce(ctx context.Context) (NodeStatus, error) {
	return t.root.ExecuteTick(ctx)
}

// TickExactlyOnce behaves like TickOnce, but documents the caller's intent
// that the tree must never be implicitly re-ticked afterward (distinct name
// only, same behavior, per §5).
func (t *Tree) TickExactlyOnce(ctx context.Context) (NodeStatus, error) {
	return t.TickOnce(ctx)
}

// TickWhileRunning implements the §5 loop: repeatedly ticks the root until
// it reports a non-Running status, then halts it (resetting status to Idle)
// before returning that status.
func (t *Tree) TickWhileRunning(ctx context.Context) (NodeStatus, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Idle, err
		}
		status, err := t.root.ExecuteTick(ctx)
		if err != nil {
			return status, err
		}
		if status != Running {
			t.root.Halt(ctx)
			return status, nil
		}
	}
}

// HaltTree halts the root, recursively halting every Running descendant and
// resetting the whole subtree's status to Idle, per §5's "A tree-level
// halt_tree halts the root."
func (t *Tree) HaltTree(ctx context.Context) { t.root.Halt(ctx) }

// Visit walks the tree pre-order, invoking fn on each node. The testable
// property of §8 ("iterating the tree in pre-order yields the same node
// sequence before and after ticking") depends on this never consulting
// Status to decide what to visit.
func (t *Tree) Visit(fn func(*TreeNode)) { VisitPreOrder(t.root, fn) }

// Render renders the tree's current shape and per-node status as a
// human-readable ASCII tree via xlab/treeprint — promoted here from an
// indirect dependency of the teacher's go.mod (pulled in transitively by
// go-behaviortree for exactly this purpose) to a direct one.
func (t *Tree) Render() string {
	tp := treeprint.New()
	tp.SetValue(nodeLabel(t.root))
	var walk func(parent treeprint.Tree, n *TreeNode)
	walk = func(parent treeprint.Tree, n *TreeNode) {
		for _, c := range n.Children {
			branch := parent.AddBranch(nodeLabel(c))
			walk(branch, c)
		}
	}
	walk(tp, t.root)
	return tp.String()
}

func nodeLabel(n *TreeNode) string {
	return fmt.Sprintf("%s [%s]", n.Name, n.Status)
}
