// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package plan

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed plans/*.yaml
var builtinPlans embed.FS

const builtinDir = "plans"

// Parse decodes a YAML plan. Unknown fields are rejected.
func Parse(data []byte) (*Plan, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	p := &Plan{}
	if err := decoder.Decode(p); err != nil {
		return nil, fmt.Errorf("failure decoding plan: %w", err)
	}
	return p, nil
}

func LoadFile(fs afero.Fs, planPath string) (*Plan, error) {
	data, err := afero.ReadFile(fs, planPath)
	if err != nil {
		return nil, fmt.Errorf("failure reading plan file %s: %w", planPath, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", planPath, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(path.Base(planPath), path.Ext(planPath))
	}
	return p, nil
}

func BuiltinNames() []string {
	entries, err := builtinPlans.ReadDir(builtinDir)
	if err != nil {
		return nil
	}
	names := []string{}
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	slices.Sort(names)
	return names
}

// Builtin returns one of the plans shipped with the tool
func Builtin(name string) (*Plan, error) {
	data, err := builtinPlans.ReadFile(path.Join(builtinDir, name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown built-in plan %q, available: %s", name, strings.Join(BuiltinNames(), ", "))
	}
	return Parse(data)
}

// Load returns the built-in plan called [nameOrPath], or reads it from [fs]
// when it names a file
func Load(fs afero.Fs, nameOrPath string) (*Plan, error) {
	if slices.Contains(BuiltinNames(), nameOrPath) {
		return Builtin(nameOrPath)
	}
	if exists, _ := afero.Exists(fs, nameOrPath); exists {
		return LoadFile(fs, nameOrPath)
	}
	return Builtin(nameOrPath)
}
