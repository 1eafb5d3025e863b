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

import "strings"

// PortDirection is the direction of data flow through a port.
type PortDirection int

const (
	InputPort PortDirection = iota
	OutputPort
	InOutPort
)

func (d PortDirection) String() string {
	switch d {
	case InputPort:
		return "Input"
	case OutputPort:
		return "Output"
	case InOutPort:
		return "InOut"
	default:
		return "Invalid"
	}
}

// PortInfo describes one port of a registered node type.
type PortInfo struct {
	Direction   PortDirection
	Default     string // default-value string, only meaningful if HasDefault
	HasDefault  bool
	TypeHint    string // optional type descriptor, documentation only
	Description string
}

// InputPortInfo builds a PortInfo for an input port with no default.
func InputPortInfo(typeHint, description string) PortInfo {
	return PortInfo{Direction: InputPort, TypeHint: typeHint, Description: description}
}

// InputPortInfoDefault builds a PortInfo for an input port with a default
// value string, applied per §4.1 step 3 if the port is unsupplied in XML.
func InputPortInfoDefault(typeHint, def, description string) PortInfo {
	return PortInfo{Direction: InputPort, TypeHint: typeHint, Default: def, HasDefault: true, Description: description}
}

// OutputPortInfo builds a PortInfo for an output port.
func OutputPortInfo(typeHint, description string) PortInfo {
	return PortInfo{Direction: OutputPort, TypeHint: typeHint, Description: description}
}

// InOutPortInfo builds a PortInfo for a bidirectional port.
func InOutPortInfo(typeHint, description string) PortInfo {
	return PortInfo{Direction: InOutPort, TypeHint: typeHint, Description: description}
}

// PortsList is an ordered mapping from port name to PortInfo. Order of
// Names() matches declaration order, which is the order bindPorts injects
// defaults in.
type PortsList struct {
	names []string
	infos map[string]PortInfo
}

// NewPortsList builds a PortsList from a sequence of (name, info) pairs,
// preserving order.
func NewPortsList(pairs ...struct {
	Name string
	Info PortInfo
}) PortsList {
	pl := PortsList{infos: make(map[string]PortInfo, len(pairs))}
	for _, p := range pairs {
		pl.names = append(pl.names, p.Name)
		pl.infos[p.Name] = p.Info
	}
	return pl
}

// Port is a convenience constructor for one (name, info) pair, used with
// Ports(...) below.
type Port struct {
	Name string
	Info PortInfo
}

// Ports builds a PortsList from Port values, the form node-type Ports()
// functions are expected to return per §6.3.
func Ports(ports ...Port) PortsList {
	pl := PortsList{infos: make(map[string]PortInfo, len(ports))}
	for _, p := range ports {
		pl.names = append(pl.names, p.Name)
		pl.infos[p.Name] = p.Info
	}
	return pl
}

func (pl PortsList) Names() []string { return pl.names }

func (pl PortsList) Get(name string) (PortInfo, bool) {
	info, ok := pl.infos[name]
	return info, ok
}

func (pl PortsList) Has(name string) bool {
	_, ok := pl.infos[name]
	return ok
}

// PortsFunc is the static, node-type-specific function that produces a
// node type's PortsList, per §3.3/§6.3.
type PortsFunc func() PortsList

// NodeConfig is the per-instance configuration attached to a TreeNode, per
// §3.5.
type NodeConfig struct {
	Blackboard  *Blackboard
	InputPorts  map[string]string // port name -> raw XML string
	OutputPorts map[string]string
	Path        string // slash-delimited location in the instantiated tree
	Manifest    *TreeNodeManifest
}

// NewNodeConfig builds an empty NodeConfig bound to bb.
func NewNodeConfig(bb *Blackboard) NodeConfig {
	return NodeConfig{
		Blackboard:  bb,
		InputPorts:  make(map[string]string),
		OutputPorts: make(map[string]string),
	}
}

// HasPort reports whether name is bound (by raw string) on this config for
// the given direction. Note a port registered InOut may appear in either
// map depending on how it was bound.
func (c *NodeConfig) HasPort(dir PortDirection, name string) bool {
	switch dir {
	case OutputPort:
		_, ok := c.OutputPorts[name]
		return ok
	default:
		_, ok := c.InputPorts[name]
		return ok
	}
}

// AddPort records a raw XML attribute value under name for the given
// direction.
func (c *NodeConfig) AddPort(dir PortDirection, name, raw string) {
	switch dir {
	case OutputPort:
		c.OutputPorts[name] = raw
	default:
		c.InputPorts[name] = raw
	}
}

// isBlackboardPointer reports whether raw has the {key} pointer syntax, and
// if so returns the bare key.
func isBlackboardPointer(raw string) (string, bool) {
	if len(raw) >= 2 && strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}") {
		return raw[1 : len(raw)-1], true
	}
	return "", false
}

// GetInput resolves input port name on c per §4.1: pointer syntax reads the
// blackboard and converts via convertFromString / Get[T]; a literal string
// parses directly. The port's default (if any) is used only when the port is
// absent from c. An absent, defaultless port (or a pointer to a missing
// entry) returns a *PortError; a value that fails to convert returns a
// *PortValueParseError.
func GetInput[T any](c *NodeConfig, name string) (T, error) {
	var zero T
	raw, ok := c.InputPorts[name]
	if !ok {
		if info, hasInfo := c.Manifest.Ports.Get(name); hasInfo && info.HasDefault {
			raw = info.Default
		} else {
			return zero, &PortError{Name: name}
		}
	}
	v, err := resolveTyped[T](c, raw, name)
	if err != nil {
		return zero, err
	}
	return v, nil
}

func resolveTyped[T any](c *NodeConfig, raw, name string) (T, error) {
	var zero T
	if key, ok := isBlackboardPointer(raw); ok {
		v, found := Get[T](c.Blackboard, key)
		if !found {
			// distinguish missing-entry from wrong-type by checking presence.
			if _, present := c.Blackboard.rawGet(key); present {
				return zero, &PortValueParseError{Name: name, Type: typeName[T]()}
			}
			return zero, &PortError{Name: name}
		}
		return v, nil
	}
	var out T
	if err := convertFromString(raw, &out); err != nil {
		return zero, &PortValueParseError{Name: name, Type: typeName[T](), Err: err}
	}
	return out, nil
}

// SetOutput writes v to the blackboard entry named by output port name's
// raw XML string, which must use {key} pointer syntax per §4.1; a literal
// raw value is a caller error.
func SetOutput[T any](c *NodeConfig, name string, v T) error {
	raw, ok := c.OutputPorts[name]
	if !ok {
		return &PortError{Name: name}
	}
	key, ok := isBlackboardPointer(raw)
	if !ok {
		return &PortValueParseError{Name: name, Type: typeName[T](), Err: errLiteralOutput}
	}
	c.Blackboard.Set(key, v)
	return nil
}

var errLiteralOutput = &BlackboardError{Msg: "output port bound to a literal, not a {key} pointer"}

func typeName[T any]() string {
	var zero T
	return typeNameOf(zero)
}

func typeNameOf(v interface{}) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case int:
		return "int"
	case int64:
		return "int64"
	case float64:
		return "float64"
	case float32:
		return "float32"
	default:
		return "value"
	}
}
