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
	"strconv"
	"strings"
	"testing"
)

func TestBlackboardRoundTrip(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("speed", 42)
	got, ok := Get[int](bb, "speed")
	if !ok || got != 42 {
		t.Fatalf("Get[int](speed) = (%d, %v), want (42, true)", got, ok)
	}
}

func TestBlackboardMissingKey(t *testing.T) {
	bb := NewBlackboard()
	if _, ok := Get[int](bb, "missing"); ok {
		t.Error("expected ok=false for a missing key")
	}
}

func TestBlackboardGlobalKey(t *testing.T) {
	root := NewBlackboard()
	mid := WithParent(root)
	leaf := WithParent(mid)

	leaf.Set("@shared", "value")

	if v, ok := Get[string](root, "shared"); !ok || v != "value" {
		t.Fatalf("global write did not land on root: got (%q, %v)", v, ok)
	}
	if v, ok := Get[string](leaf, "@shared"); !ok || v != "value" {
		t.Fatalf("global read from leaf failed: got (%q, %v)", v, ok)
	}
}

func TestBlackboardSubtreeRemapping(t *testing.T) {
	parent := NewBlackboard()
	parent.Set("goal", "north")

	child := WithParent(parent)
	child.AddSubtreeRemapping("target", "goal")

	v, ok := Get[string](child, "target")
	if !ok || v != "north" {
		t.Fatalf("remapped read = (%q, %v), want (\"north\", true)", v, ok)
	}

	child.Set("target", "south")
	v, ok = Get[string](parent, "goal")
	if !ok || v != "south" {
		t.Fatalf("remapped write did not propagate: got (%q, %v)", v, ok)
	}
}

func TestBlackboardAutoRemapping(t *testing.T) {
	parent := NewBlackboard()
	parent.Set("count", 7)

	child := WithParent(parent)
	child.EnableAutoRemapping(true)

	v, ok := Get[int](child, "count")
	if !ok || v != 7 {
		t.Fatalf("auto-remapped fallback read = (%d, %v), want (7, true)", v, ok)
	}

	child.Set("count", 9)
	if v, ok := Get[int](parent, "count"); !ok || v != 9 {
		t.Fatalf("auto-remapped write did not reach parent: got (%d, %v)", v, ok)
	}
}

func TestBlackboardAutoRemappingDoesNotShadowLocal(t *testing.T) {
	parent := NewBlackboard()
	parent.Set("count", 7)

	child := WithParent(parent)
	child.EnableAutoRemapping(true)
	child.Set("count", 100)

	if v, _ := Get[int](child, "count"); v != 100 {
		t.Fatalf("local value should shadow auto-remapped parent value, got %d", v)
	}
}

type pose struct{ x, y, z int }

func (p *pose) FromString(s string) error {
	parts := strings.Split(s, ";")
	if len(parts) != 3 {
		return &BlackboardError{Msg: "pose requires exactly 3 semicolon-separated fields"}
	}
	vals := make([]int, 3)
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return err
		}
		vals[i] = v
	}
	p.x, p.y, p.z = vals[0], vals[1], vals[2]
	return nil
}

func TestConvertFromStringBuiltins(t *testing.T) {
	var s string
	if err := convertFromString("hello", &s); err != nil || s != "hello" {
		t.Fatalf("string conversion failed: %v", err)
	}
	var n int
	if err := convertFromString("42", &n); err != nil || n != 42 {
		t.Fatalf("int conversion failed: %v", err)
	}
	var bln bool
	if err := convertFromString("true", &bln); err != nil || !bln {
		t.Fatalf("bool conversion failed: %v", err)
	}
	var f float64
	if err := convertFromString("3.5", &f); err != nil || f != 3.5 {
		t.Fatalf("float64 conversion failed: %v", err)
	}
}

func TestConvertFromStringCustomType(t *testing.T) {
	var p pose
	if err := convertFromString("1;2;3", &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.x != 1 || p.y != 2 || p.z != 3 {
		t.Fatalf("pose = %+v, want {1 2 3}", p)
	}
}
