// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package plan

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DeployKind = "deploy"
	WireKind   = "wire"
)

// Plan is an ordered list of deploy and wire steps. Step order is authorial:
// it is validated, never rearranged.
type Plan struct {
	Name        string `yaml:"name"`
	Bundle      string `yaml:"bundle"`
	Network     string `yaml:"network"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

type DeployStep struct {
	LogicalName string
	// Contract is the artifact name. Defaults to LogicalName.
	Contract  string
	Args      []Value
	DependsOn []string
}

func (d DeployStep) ContractName() string {
	if d.Contract == "" {
		return d.LogicalName
	}
	return d.Contract
}

// Call is a single configuration transaction. Method is either a full
// signature such as "setProviders(address[])" or a bare method name looked
// up in the target artifact ABI.
type Call struct {
	Method string  `yaml:"method"`
	Args   []Value `yaml:"args,omitempty"`
}

type WireStep struct {
	Target    string
	Action    string
	Calls     []Call
	DependsOn []string
}

// Step holds exactly one of Deploy or Wire
type Step struct {
	Deploy *DeployStep
	Wire   *WireStep
}

func NewDeploy(logicalName string, contract string, args ...Value) Step {
	return Step{Deploy: &DeployStep{LogicalName: logicalName, Contract: contract, Args: args}}
}

func NewWire(target string, action string, calls ...Call) Step {
	return Step{Wire: &WireStep{Target: target, Action: action, Calls: calls}}
}

func NewCall(method string, args ...Value) Call {
	return Call{Method: method, Args: args}
}

func (s Step) Kind() string {
	if s.Deploy != nil {
		return DeployKind
	}
	return WireKind
}

// Name is the logical name a step produces (deploy) or targets (wire)
func (s Step) Name() string {
	switch {
	case s.Deploy != nil:
		return s.Deploy.LogicalName
	case s.Wire != nil:
		return s.Wire.Target
	}
	return ""
}

func (s Step) ID() string {
	switch {
	case s.Deploy != nil:
		return fmt.Sprintf("deploy %s", s.Deploy.LogicalName)
	case s.Wire != nil:
		return fmt.Sprintf("wire %s %s", s.Wire.Target, s.Wire.Action)
	}
	return "empty step"
}

// HandleRefs lists every logical name the step needs produced beforehand:
// argument references, the wire target and explicit dependencies.
func (s Step) HandleRefs() []string {
	refs := []string{}
	switch {
	case s.Deploy != nil:
		refs = append(refs, s.Deploy.DependsOn...)
		for _, arg := range s.Deploy.Args {
			refs = append(refs, arg.HandleRefs()...)
		}
	case s.Wire != nil:
		refs = append(refs, s.Wire.Target)
		refs = append(refs, s.Wire.DependsOn...)
		for _, call := range s.Wire.Calls {
			for _, arg := range call.Args {
				refs = append(refs, arg.HandleRefs()...)
			}
		}
	}
	return refs
}

func (s Step) LiteralKeys() []string {
	keys := []string{}
	switch {
	case s.Deploy != nil:
		for _, arg := range s.Deploy.Args {
			keys = append(keys, arg.LiteralKeys()...)
		}
	case s.Wire != nil:
		for _, call := range s.Wire.Calls {
			for _, arg := range call.Args {
				keys = append(keys, arg.LiteralKeys()...)
			}
		}
	}
	return keys
}

type rawStep struct {
	Deploy    string   `yaml:"deploy,omitempty"`
	Contract  string   `yaml:"contract,omitempty"`
	Wire      string   `yaml:"wire,omitempty"`
	Action    string   `yaml:"action,omitempty"`
	Args      []Value  `yaml:"args,omitempty"`
	Calls     []Call   `yaml:"calls,omitempty"`
	DependsOn []string `yaml:"dependsOn,omitempty"`
}

func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var raw rawStep
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch {
	case raw.Deploy != "" && raw.Wire != "":
		return fmt.Errorf("line %d: a step is either a deploy or a wire, not both", node.Line)
	case raw.Deploy != "":
		if raw.Action != "" || len(raw.Calls) != 0 {
			return fmt.Errorf("line %d: deploy step %s can't have action or calls", node.Line, raw.Deploy)
		}
		*s = Step{Deploy: &DeployStep{
			LogicalName: raw.Deploy,
			Contract:    raw.Contract,
			Args:        raw.Args,
			DependsOn:   raw.DependsOn,
		}}
	case raw.Wire != "":
		if raw.Contract != "" || len(raw.Args) != 0 {
			return fmt.Errorf("line %d: wire step %s takes arguments per call", node.Line, raw.Wire)
		}
		*s = Step{Wire: &WireStep{
			Target:    raw.Wire,
			Action:    raw.Action,
			Calls:     raw.Calls,
			DependsOn: raw.DependsOn,
		}}
	default:
		return fmt.Errorf("line %d: step must set either deploy or wire", node.Line)
	}
	return nil
}

func (s Step) MarshalYAML() (interface{}, error) {
	switch {
	case s.Deploy != nil:
		return rawStep{
			Deploy:    s.Deploy.LogicalName,
			Contract:  s.Deploy.Contract,
			Args:      s.Deploy.Args,
			DependsOn: s.Deploy.DependsOn,
		}, nil
	case s.Wire != nil:
		return rawStep{
			Wire:      s.Wire.Target,
			Action:    s.Wire.Action,
			Calls:     s.Wire.Calls,
			DependsOn: s.Wire.DependsOn,
		}, nil
	}
	return nil, fmt.Errorf("empty step")
}

// DeployCount returns the number of deploy steps
func (p *Plan) DeployCount() int {
	n := 0
	for _, step := range p.Steps {
		if step.Deploy != nil {
			n++
		}
	}
	return n
}

// WireCallCount returns the number of wiring transactions a full run issues
func (p *Plan) WireCallCount() int {
	n := 0
	for _, step := range p.Steps {
		if step.Wire != nil {
			n += len(step.Wire.Calls)
		}
	}
	return n
}

func (p *Plan) String() string {
	return fmt.Sprintf("%s (bundle %s, network %s, %d steps)", p.Name, p.Bundle, strings.ToLower(p.Network), len(p.Steps))
}
