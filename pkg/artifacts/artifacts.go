// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package artifacts loads compiled contracts (ABI and creation bytecode)
// from hardhat or foundry build output.
package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fujidao/fujideploy/pkg/clierrors"

	"github.com/ava-labs/libevm/accounts/abi"
	"github.com/ava-labs/libevm/common/hexutil"
	"github.com/spf13/afero"
)

const (
	artifactExt      = ".json"
	debugArtifactExt = ".dbg.json"
)

type Artifact struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

// Source provides artifacts by contract name
type Source interface {
	Artifact(contract string) (*Artifact, error)
}

// Store finds <Contract>.json anywhere below its directory, which covers
// hardhat (artifacts/contracts/X.sol/X.json), foundry (out/X.sol/X.json)
// and flat directories.
type Store struct {
	fs  afero.Fs
	dir string

	lock  sync.Mutex
	index map[string]string
	cache map[string]*Artifact
}

var _ Source = (*Store)(nil)

func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{
		fs:    fs,
		dir:   dir,
		cache: map[string]*Artifact{},
	}
}

func (s *Store) buildIndex() error {
	s.index = map[string]string{}
	return afero.Walk(s.fs, s.dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if info.IsDir() || !strings.HasSuffix(name, artifactExt) || strings.HasSuffix(name, debugArtifactExt) {
			return nil
		}
		contract := strings.TrimSuffix(name, artifactExt)
		// first match wins, Walk is lexical
		if _, ok := s.index[contract]; !ok {
			s.index[contract] = path
		}
		return nil
	})
}

func (s *Store) Artifact(contract string) (*Artifact, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if a, ok := s.cache[contract]; ok {
		return a, nil
	}
	if s.index == nil {
		if err := s.buildIndex(); err != nil {
			s.index = nil
			return nil, fmt.Errorf("failure scanning artifacts at %s: %w", s.dir, err)
		}
	}
	path, ok := s.index[contract]
	if !ok {
		return nil, fmt.Errorf("%w: %s under %s", clierrors.ErrArtifactNotFound, contract, s.dir)
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, err
	}
	a, err := Parse(contract, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	s.cache[contract] = a
	return a, nil
}

type artifactFile struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

type foundryBytecode struct {
	Object string `json:"object"`
}

// Parse decodes a hardhat artifact ("bytecode": "0x...") or a foundry one
// ("bytecode": {"object": "0x..."})
func Parse(contract string, data []byte) (*Artifact, error) {
	file := artifactFile{}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid artifact for %s: %w", contract, err)
	}
	if len(file.ABI) == 0 {
		return nil, fmt.Errorf("artifact for %s has no abi", contract)
	}
	parsedABI, err := abi.JSON(bytes.NewReader(file.ABI))
	if err != nil {
		return nil, fmt.Errorf("invalid abi for %s: %w", contract, err)
	}
	code, err := decodeBytecode(file.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode for %s: %w", contract, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("artifact for %s has no bytecode, is it abstract?", contract)
	}
	name := file.ContractName
	if name == "" {
		name = contract
	}
	return &Artifact{
		Name:     name,
		ABI:      parsedABI,
		Bytecode: code,
	}, nil
}

func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		foundry := foundryBytecode{}
		if err := json.Unmarshal(raw, &foundry); err != nil {
			return nil, err
		}
		hex = foundry.Object
	}
	if hex == "" || hex == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(hex, "0x") {
		hex = "0x" + hex
	}
	return hexutil.Decode(hex)
}
