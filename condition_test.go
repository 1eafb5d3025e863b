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
	"testing"
)

func TestConditionUntypedVariable(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("speed", 5)
	cfg := NewNodeConfig(bb)
	cfg.Manifest = &TreeNodeManifest{Ports: ConditionPorts()}
	cfg.AddPort(InputPort, "expr", "{speed} > 3")
	n := NewConditionNode(cfg)

	status, err := n.ExecuteTick(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if status != Success {
		t.Fatalf("got %s, want Success", status)
	}
}

func TestConditionTypedVariable(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("speed", "5") // stored as a raw string, as it would be from XML literal binding
	cfg := NewNodeConfig(bb)
	cfg.Manifest = &TreeNodeManifest{Ports: ConditionPorts()}
	cfg.AddPort(InputPort, "expr", "{speed:int} > 3")
	n := NewConditionNode(cfg)

	status, err := n.ExecuteTick(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if status != Success {
		t.Fatalf("got %s, want Success", status)
	}
}

func TestConditionFailsOnFalse(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("speed", 1)
	cfg := NewNodeConfig(bb)
	cfg.Manifest = &TreeNodeManifest{Ports: ConditionPorts()}
	cfg.AddPort(InputPort, "expr", "{speed} > 3")
	n := NewConditionNode(cfg)

	status, err := n.ExecuteTick(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if status != Failure {
		t.Fatalf("got %s, want Failure", status)
	}
}

func TestConditionTypedMismatchIsHardFailure(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("speed", "not-a-number")
	cfg := NewNodeConfig(bb)
	cfg.Manifest = &TreeNodeManifest{Ports: ConditionPorts()}
	cfg.AddPort(InputPort, "expr", "{speed:int} > 3")
	n := NewConditionNode(cfg)

	_, err := n.ExecuteTick(context.Background())
	if err == nil {
		t.Fatal("expected an error for a typed read against an unparsable stored string, not silent coercion")
	}
}

func TestConditionCompilesOnceAndCaches(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("speed", 10)
	cfg := NewNodeConfig(bb)
	cfg.Manifest = &TreeNodeManifest{Ports: ConditionPorts()}
	cfg.AddPort(InputPort, "expr", "{speed} > 3")
	n := NewConditionNode(cfg)

	state := n.UserCtx.(*conditionState)
	if state.compiled {
		t.Fatal("expression should not be compiled before the first tick")
	}
	if _, err := n.ExecuteTick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !state.compiled {
		t.Fatal("expression should be compiled after the first tick")
	}
	program := state.program
	if _, err := n.ExecuteTick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if state.program != program {
		t.Fatal("the compiled program should be reused across ticks, not recompiled")
	}
}
