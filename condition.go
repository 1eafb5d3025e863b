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

// condition.go implements the §4.3 "Condition (expression evaluator)" leaf.
// The core spec treats the expression sublanguage as an opaque external
// collaborator; this repo gives it a real implementation on top of
// dop251/goja, the same embedding the one-shot-man `bt`-adapter reference
// code uses to bridge a behavior-tree leaf to a scripting VM.
package bht

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/dop251/goja"
)

// variable reference syntax inside an expr string: {name} or {name:type}.
var exprVarRE = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(?::(int|float|str|bool))?\}`)

type exprVar struct {
	name string // blackboard key
	typ  string // "", "int", "float", "str", "bool"
	jsID string // sanitized JS identifier substituted into the source
}

type conditionState struct {
	compiled bool
	expr     string
	program  *goja.Program
	vars     []exprVar
}

// NewConditionNode builds the "Condition" leaf: it compiles its "expr" input
// port into a goja program on first tick, caches it on the node's user
// context, and on every subsequent tick evaluates it against a fresh runtime
// populated only with the blackboard entries the expression references.
// Result is Success iff the boolean result is true, else Failure; any read
// or evaluation failure fails the tick with a *ConditionExpressionError.
func NewConditionNode(cfg NodeConfig) *TreeNode {
	state := &conditionState{}
	tick := func(ctx context.Context, n *TreeNode) (NodeStatus, error) {
		if !state.compiled {
			expr, err := GetInput[string](&n.Config, "expr")
			if err != nil {
				return Failure, err
			}
			if err := compileCondition(state, expr); err != nil {
				return Failure, err
			}
		}
		ok, err := evalCondition(state, n.Config.Blackboard)
		if err != nil {
			return Failure, err
		}
		if ok {
			return Success, nil
		}
		return Failure, nil
	}
	n := NewTreeNode("Condition", "Condition", NodeTypeSyncAction, CategoryAction, cfg, tick, nil, nil)
	n.UserCtx = state
	return n
}

// ConditionPorts is the Ports() function for the builtin Condition node.
func ConditionPorts() PortsList {
	return Ports(Port{Name: "expr", Info: InputPortInfo("str", "boolean/arithmetic expression, e.g. \"{speed:int} > 3\"")})
}

func compileCondition(state *conditionState, expr string) error {
	matches := exprVarRE.FindAllStringSubmatchIndex(expr, -1)
	var vars []exprVar
	seen := make(map[string]string)
	// rebuild the JS source, left to right, substituting each {name[:type]}
	// token with a sanitized identifier.
	src := make([]byte, 0, len(expr))
	last := 0
	for i, m := range matches {
		src = append(src, expr[last:m[0]]...)
		name := expr[m[2]:m[3]]
		typ := ""
		if m[4] >= 0 {
			typ = expr[m[4]:m[5]]
		}
		jsID, ok := seen[name+":"+typ]
		if !ok {
			jsID = fmt.Sprintf("__v%d", i)
			seen[name+":"+typ] = jsID
			vars = append(vars, exprVar{name: name, typ: typ, jsID: jsID})
		}
		src = append(src, jsID...)
		last = m[1]
	}
	src = append(src, expr[last:]...)

	program, err := goja.Compile("condition", string(src), true)
	if err != nil {
		return &ConditionExpressionError{Expr: expr, Err: err}
	}
	state.expr = expr
	state.program = program
	state.vars = vars
	state.compiled = true
	return nil
}

func evalCondition(state *conditionState, bb *Blackboard) (bool, error) {
	vm := goja.New()
	for _, v := range state.vars {
		val, err := resolveConditionVar(bb, v)
		if err != nil {
			return false, &ConditionExpressionError{Expr: state.expr, Err: err}
		}
		if err := vm.Set(v.jsID, val); err != nil {
			return false, &ConditionExpressionError{Expr: state.expr, Err: err}
		}
	}
	result, err := vm.RunProgram(state.program)
	if err != nil {
		return false, &ConditionExpressionError{Expr: state.expr, Err: err}
	}
	return result.ToBoolean(), nil
}

// resolveConditionVar reads v.name off the blackboard and converts it per
// v.typ (or passes it through as-is, if untyped and already a supported
// primitive). A typed read parses the entry's string form (GetString) as
// v.typ, so a stored "5" reads as {name:int}; it fails with a
// *PortValueParseError when that string does not parse as v.typ.
func resolveConditionVar(bb *Blackboard, v exprVar) (interface{}, error) {
	if v.typ == "" {
		raw, ok := bb.rawGet(v.name)
		if !ok {
			return nil, &PortError{Name: v.name}
		}
		switch raw.(type) {
		case string, bool, int, int64, float64, float32:
			return raw, nil
		default:
			return nil, &PortValueParseError{Name: v.name, Type: "value"}
		}
	}
	s, ok := bb.GetString(v.name)
	if !ok {
		return nil, &PortError{Name: v.name}
	}
	switch v.typ {
	case "int":
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, &PortValueParseError{Name: v.name, Type: "int", Err: err}
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &PortValueParseError{Name: v.name, Type: "float", Err: err}
		}
		return f, nil
	case "bool":
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, &PortValueParseError{Name: v.name, Type: "bool", Err: err}
		}
		return b, nil
	default: // "str"
		return s, nil
	}
}
