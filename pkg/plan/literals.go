// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package plan

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Literals is the configuration a plan reads "$key" references from.
// Keys are lowercase dotted paths; lists are kept as values.
type Literals map[string]any

// NewLiterals flattens a nested map into dotted lowercase keys
func NewLiterals(nested map[string]any) Literals {
	literals := Literals{}
	literals.merge("", nested)
	return literals
}

func (l Literals) merge(prefix string, nested map[string]any) {
	for k, v := range nested {
		key := strings.ToLower(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		switch t := v.(type) {
		case map[string]any:
			l.merge(key, t)
		case map[any]any:
			converted := map[string]any{}
			for mk, mv := range t {
				converted[fmt.Sprint(mk)] = mv
			}
			l.merge(key, converted)
		default:
			l[key] = v
		}
	}
}

// Set stores [value] under [key], flattening maps
func (l Literals) Set(key string, value any) {
	switch t := value.(type) {
	case map[string]any:
		l.merge(strings.ToLower(key), t)
	default:
		l[strings.ToLower(key)] = value
	}
}

func (l Literals) Lookup(key string) (any, bool) {
	v, ok := l[strings.ToLower(key)]
	return v, ok
}

func (l Literals) Keys() []string {
	return slices.Sorted(maps.Keys(l))
}
