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
	"fmt"

	"github.com/sirupsen/logrus"
)

// ConstructorFunc is the closure stored by a node registration: given the
// instance's NodeConfig and its already-built children, it returns a fully
// constructed TreeNode. Leaves are called with an empty children slice;
// decorators are always called with exactly one.
type ConstructorFunc func(cfg NodeConfig, children []*TreeNode) (*TreeNode, error)

type registration struct {
	category    NodeCategory
	manifest    *TreeNodeManifest
	constructor ConstructorFunc
}

// Factory maintains the registry of constructible node types plus the
// retained XML stream positions used by RegisterTreeFromText/InstantiateTree
// (see xml.go), mirroring §4.4.
type Factory struct {
	registrations map[string]*registration
	trees         map[string]retainedTree
	mainTreeID    string
	logger        logrus.FieldLogger
}

// NewFactory constructs a Factory with every builtin composite/decorator
// registered, per §4.4 "Builtin registrations are added at factory
// construction."
func NewFactory() *Factory {
	f := &Factory{
		registrations: make(map[string]*registration),
		trees:         make(map[string]retainedTree),
		logger:        logrus.StandardLogger(),
	}
	f.registerBuiltins()
	return f
}

// SetLogger replaces the logrus.FieldLogger held by the Factory (defaults to
// logrus.StandardLogger()). Parse and instantiation errors are returned to
// the caller; no Factory method writes them to this logger.
func (f *Factory) SetLogger(l logrus.FieldLogger) { f.logger = l }

// RegisterNode stores a closure that, given a NodeConfig and already-built
// children, returns a fully constructed TreeNode, per §4.4 "Registration".
func (f *Factory) RegisterNode(name string, category NodeCategory, ports PortsList, description string, construct ConstructorFunc) error {
	if _, exists := f.registrations[name]; exists {
		return fmt.Errorf("bht: node %q already registered", name)
	}
	f.registrations[name] = &registration{
		category: category,
		manifest: &TreeNodeManifest{
			Category:    category,
			RegID:       name,
			Ports:       ports,
			Description: description,
		},
		constructor: construct,
	}
	return nil
}

// RegisterActionNode registers a synchronous (non-stateful) leaf action
// node, per §6.2 register_action_node.
func (f *Factory) RegisterActionNode(name string, ports PortsList, tick TickFn) error {
	return f.RegisterNode(name, CategoryAction, ports, "", func(cfg NodeConfig, children []*TreeNode) (*TreeNode, error) {
		return NewTreeNode(name, name, NodeTypeSyncAction, CategoryAction, cfg, tick, nil, nil), nil
	})
}

// RegisterStatefulActionNode registers a leaf action that distinguishes
// first entry (on_start) from continuation (on_running), per §6.3.
func (f *Factory) RegisterStatefulActionNode(name string, ports PortsList, start StartFn, tick TickFn, halt HaltFn) error {
	return f.RegisterNode(name, CategoryAction, ports, "", func(cfg NodeConfig, children []*TreeNode) (*TreeNode, error) {
		return NewTreeNode(name, name, NodeTypeStatefulAction, CategoryAction, cfg, tick, start, halt), nil
	})
}

// RegisterControlNode registers a user-defined control (0-N children) node,
// per §6.2 register_control_node.
func (f *Factory) RegisterControlNode(name string, ports PortsList, build func(cfg NodeConfig, children []*TreeNode) (*TreeNode, error)) error {
	return f.RegisterNode(name, CategoryControl, ports, "", build)
}

// RegisterDecoratorNode registers a user-defined decorator (exactly 1
// child) node, per §6.2 register_decorator_node.
func (f *Factory) RegisterDecoratorNode(name string, ports PortsList, build func(cfg NodeConfig, child *TreeNode) (*TreeNode, error)) error {
	return f.RegisterNode(name, CategoryDecorator, ports, "", func(cfg NodeConfig, children []*TreeNode) (*TreeNode, error) {
		if len(children) != 1 {
			return nil, &ParseError{Kind: ViolateNodeConstraint, Msg: fmt.Sprintf("decorator %q requires exactly 1 child, got %d", name, len(children))}
		}
		return build(cfg, children[0])
	})
}

func (f *Factory) registerBuiltins() {
	noPorts := PortsList{}
	control := func(name string, build func(NodeConfig, []*TreeNode) *TreeNode, ports PortsList) {
		_ = f.RegisterControlNode(name, ports, func(cfg NodeConfig, children []*TreeNode) (*TreeNode, error) {
			return build(cfg, children), nil
		})
	}
	decorator := func(name string, build func(NodeConfig, *TreeNode) *TreeNode, ports PortsList) {
		_ = f.RegisterDecoratorNode(name, ports, func(cfg NodeConfig, child *TreeNode) (*TreeNode, error) {
			return build(cfg, child), nil
		})
	}

	control("Sequence", NewSequenceNode, noPorts)
	control("ReactiveSequence", NewReactiveSequenceNode, noPorts)
	control("SequenceStar", NewSequenceStarNode, noPorts)
	control("Fallback", NewFallbackNode, noPorts)
	control("ReactiveFallback", NewReactiveFallbackNode, noPorts)
	control("Parallel", NewParallelNode, ParallelPorts())
	control("ParallelAll", NewParallelAllNode, noPorts)
	control("IfThenElse", NewIfThenElseNode, noPorts)
	control("WhileDoElse", NewWhileDoElseNode, noPorts)

	decorator("Inverter", NewInverterNode, noPorts)
	decorator("ForceSuccess", NewForceSuccessNode, noPorts)
	decorator("ForceFailure", NewForceFailureNode, noPorts)
	decorator("KeepRunningUntilFailure", NewKeepRunningUntilFailureNode, noPorts)
	decorator("Repeat", NewRepeatNode, RepeatPorts())
	decorator("Retry", NewRetryNode, RetryPorts())
	decorator("RunOnce", NewRunOnceNode, noPorts)

	_ = f.RegisterNode("Condition", CategoryAction, ConditionPorts(), "expression-evaluated condition leaf", func(cfg NodeConfig, children []*TreeNode) (*TreeNode, error) {
		return NewConditionNode(cfg), nil
	})
}

// lookup returns the registration for name, or nil if unregistered.
func (f *Factory) lookup(name string) *registration { return f.registrations[name] }
