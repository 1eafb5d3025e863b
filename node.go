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

// TreeNodeManifest is per-registration metadata, shared by reference among
// all instances of a registered node type, per §3.4.
type TreeNodeManifest struct {
	Category    NodeCategory
	RegID       string
	Ports       PortsList
	Description string
}

// TickFn is a node's tick body. It receives the node itself (for config and
// children access) and its opaque user context, and returns the new status
// or an error that aborts the tick and propagates to the root.
type TickFn func(ctx context.Context, n *TreeNode) (NodeStatus, error)

// StartFn is called instead of TickFn the first time a stateful action is
// ticked from Idle.
type StartFn func(ctx context.Context, n *TreeNode) (NodeStatus, error)

// HaltFn is called by Halt. The default is a no-op for leaves; composites
// and decorators override it to halt any still-Running children.
type HaltFn func(ctx context.Context, n *TreeNode)

// TreeNode is the universal node entity of §3.7: a data envelope (identity,
// status, config, children) plus function slots, plus an opaque per-instance
// user context owned by the node.
type TreeNode struct {
	Name     string
	TypeStr  string
	Type     NodeType
	Category NodeCategory
	Config   NodeConfig
	Status   NodeStatus
	Children []*TreeNode

	// UserCtx is the opaque, type-erased payload for user-defined action
	// state (source option (b) of §9: function pointers + opaque payload).
	UserCtx interface{}

	tickFn  TickFn
	startFn StartFn
	haltFn  HaltFn
}

// NewTreeNode constructs a TreeNode. haltFn may be nil, meaning "no-op".
func NewTreeNode(name, typeStr string, typ NodeType, cat NodeCategory, cfg NodeConfig, tick TickFn, start StartFn, halt HaltFn) *TreeNode {
	return &TreeNode{
		Name:     name,
		TypeStr:  typeStr,
		Type:     typ,
		Category: cat,
		Config:   cfg,
		Status:   Idle,
		tickFn:   tick,
		startFn:  start,
		haltFn:   halt,
	}
}

// ExecuteTick is the single public entry a parent invokes on a child, per
// §4.2. It enforces: on Idle entry of a stateful action, call start_fn;
// otherwise (including Running re-entry) call tick_fn. The returned status
// is written back onto the node before being returned to the caller.
func (n *TreeNode) ExecuteTick(ctx context.Context) (NodeStatus, error) {
	var (
		status NodeStatus
		err    error
	)
	if n.Status == Idle && n.Type == NodeTypeStatefulAction && n.startFn != nil {
		status, err = n.startFn(ctx, n)
	} else {
		status, err = n.tickFn(ctx, n)
	}
	if err != nil {
		return n.Status, err
	}
	if status == Idle {
		return n.Status, &StatusError{Path: n.Config.Path, Status: status}
	}
	n.Status = status
	return status, nil
}

// Halt invokes halt_fn (best-effort: it does not itself fail the tick) and
// then resets this node's status to Idle, satisfying "after halt, every
// node's status in the subtree is Idle". Composites' halt_fn recursively
// halts any children still Running before returning.
func (n *TreeNode) Halt(ctx context.Context) {
	if n.haltFn != nil {
		n.haltFn(ctx, n)
	}
	n.Status = Idle
}

// HaltChild halts child only if it is currently Running; called by
// composites per §4.3 to halt siblings on re-tick or on completion.
func HaltChild(ctx context.Context, child *TreeNode) {
	if child.Status == Running {
		child.Halt(ctx)
	}
}

// VisitPreOrder walks n and its descendants pre-order, invoking fn on each.
// Used by Tree.Visit and the pre-order-stability testable property of §8.
func VisitPreOrder(n *TreeNode, fn func(*TreeNode)) {
	fn(n)
	for _, c := range n.Children {
		VisitPreOrder(c, fn)
	}
}
