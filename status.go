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

// NodeStatus is the result of a single tick of a TreeNode.
type NodeStatus int

const (
	// Idle is the status of a node that has never been ticked, or that was
	// last reset/halted.
	Idle NodeStatus = iota
	Running
	Success
	Failure
	Skipped
)

func (s NodeStatus) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	case Skipped:
		return "Skipped"
	default:
		return "Invalid"
	}
}

// IsCompleted reports whether s is a terminal result for this tick, i.e.
// Success or Failure (Skipped is terminal too, but is tracked separately by
// callers that treat it specially, e.g. ReactiveSequence and Parallel).
func (s NodeStatus) IsCompleted() bool { return s == Success || s == Failure }

// IsActive reports whether s is Running.
func (s NodeStatus) IsActive() bool { return s == Running }

// NodeCategory dictates how many children a node may have.
type NodeCategory int

const (
	CategoryAction NodeCategory = iota
	CategoryControl
	CategoryDecorator
	CategorySubTree
)

func (c NodeCategory) String() string {
	switch c {
	case CategoryAction:
		return "Action"
	case CategoryControl:
		return "Control"
	case CategoryDecorator:
		return "Decorator"
	case CategorySubTree:
		return "SubTree"
	default:
		return "Invalid"
	}
}

// NodeType picks the tick-dispatch discipline for a node; finer-grained than
// NodeCategory (e.g. both Control and Decorator nodes are CategoryControl's
// and CategoryDecorator's respective single NodeType, but Action nodes split
// into synchronous and stateful).
type NodeType int

const (
	NodeTypeSyncAction NodeType = iota
	NodeTypeStatefulAction
	NodeTypeControl
	NodeTypeDecorator
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeSyncAction:
		return "SyncAction"
	case NodeTypeStatefulAction:
		return "StatefulAction"
	case NodeTypeControl:
		return "Control"
	case NodeTypeDecorator:
		return "Decorator"
	default:
		return "Invalid"
	}
}
