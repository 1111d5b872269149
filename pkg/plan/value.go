// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package plan

import (
	"fmt"
	"strings"

	"github.com/ava-labs/libevm/common"
	"gopkg.in/yaml.v3"
)

const (
	handleRefPrefix  = "@"
	literalRefPrefix = "$"
)

type ValueKind int

const (
	RawValue ValueKind = iota
	HandleRef
	LiteralRef
	ListValue
)

// Value is an argument template. It is either a raw scalar, a reference to
// the handle of an earlier deploy step ("@Name"), a reference into the
// literal map ("$dotted.key") or a list of values.
type Value struct {
	Kind  ValueKind
	Name  string
	Raw   any
	Items []Value
}

func Ref(logicalName string) Value {
	return Value{Kind: HandleRef, Name: logicalName}
}

func Lit(key string) Value {
	return Value{Kind: LiteralRef, Name: strings.ToLower(key)}
}

func Raw(v any) Value {
	return Value{Kind: RawValue, Raw: v}
}

func List(items ...Value) Value {
	return Value{Kind: ListValue, Items: items}
}

// ParseValue builds a Value out of a decoded YAML/JSON document
func ParseValue(v any) Value {
	switch t := v.(type) {
	case string:
		switch {
		case strings.HasPrefix(t, handleRefPrefix):
			return Ref(strings.TrimPrefix(t, handleRefPrefix))
		case strings.HasPrefix(t, literalRefPrefix):
			return Lit(strings.TrimPrefix(t, literalRefPrefix))
		}
		return Raw(t)
	case []any:
		items := make([]Value, 0, len(t))
		for _, e := range t {
			items = append(items, ParseValue(e))
		}
		return List(items...)
	}
	return Raw(v)
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		return fmt.Errorf("line %d: mappings are not valid arguments", node.Line)
	}
	var decoded any
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*v = ParseValue(decoded)
	return nil
}

func (v Value) MarshalYAML() (interface{}, error) {
	switch v.Kind {
	case HandleRef:
		return handleRefPrefix + v.Name, nil
	case LiteralRef:
		return literalRefPrefix + v.Name, nil
	case ListValue:
		return v.Items, nil
	}
	return v.Raw, nil
}

// HandleRefs returns every logical name the value references
func (v Value) HandleRefs() []string {
	switch v.Kind {
	case HandleRef:
		return []string{v.Name}
	case ListValue:
		refs := []string{}
		for _, item := range v.Items {
			refs = append(refs, item.HandleRefs()...)
		}
		return refs
	}
	return nil
}

// LiteralKeys returns every literal key the value references
func (v Value) LiteralKeys() []string {
	switch v.Kind {
	case LiteralRef:
		return []string{v.Name}
	case ListValue:
		keys := []string{}
		for _, item := range v.Items {
			keys = append(keys, item.LiteralKeys()...)
		}
		return keys
	}
	return nil
}

// Resolve replaces handle references by the handle address and literal
// references by the literal value. The result holds no Value.
func (v Value) Resolve(
	handle func(logicalName string) (common.Address, bool),
	literals Literals,
) (any, error) {
	switch v.Kind {
	case HandleRef:
		address, ok := handle(v.Name)
		if !ok {
			return nil, fmt.Errorf("no handle produced for %q yet", v.Name)
		}
		return address, nil
	case LiteralRef:
		value, ok := literals.Lookup(v.Name)
		if !ok {
			return nil, fmt.Errorf("unknown literal %q", v.Name)
		}
		return value, nil
	case ListValue:
		resolved := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			r, err := item.Resolve(handle, literals)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, r)
		}
		return resolved, nil
	}
	return v.Raw, nil
}

func (v Value) String() string {
	switch v.Kind {
	case HandleRef:
		return handleRefPrefix + v.Name
	case LiteralRef:
		return literalRefPrefix + v.Name
	case ListValue:
		return "[" + JoinValues(v.Items) + "]"
	}
	return fmt.Sprint(v.Raw)
}

func JoinValues(values []Value) string {
	strs := make([]string, 0, len(values))
	for _, value := range values {
		strs = append(strs, value.String())
	}
	return strings.Join(strs, ", ")
}

// ResolveAll resolves a list of argument templates
func ResolveAll(
	values []Value,
	handle func(logicalName string) (common.Address, bool),
	literals Literals,
) ([]any, error) {
	resolved := make([]any, 0, len(values))
	for i, value := range values {
		r, err := value.Resolve(handle, literals)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		resolved = append(resolved, r)
	}
	return resolved, nil
}

// IsUnresolved indicates whether [v] still contains an argument template
func IsUnresolved(v any) bool {
	switch t := v.(type) {
	case Value, *Value:
		return true
	case []any:
		for _, e := range t {
			if IsUnresolved(e) {
				return true
			}
		}
	}
	return false
}
