// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry persists the addresses of deployed contracts, keyed by
// bundle and logical name, so a plan can be resumed or re-run.
package registry

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fujidao/fujideploy/pkg/clierrors"
	"github.com/fujidao/fujideploy/pkg/constants"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/libevm/common"
	"github.com/spf13/afero"
)

type Record struct {
	Name      string         `json:"name"`
	Contract  string         `json:"contract,omitempty"`
	Address   common.Address `json:"address"`
	TxHash    common.Hash    `json:"txHash"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Registry maps (bundle, logical name) to the address of a deployment.
// Every read or write failure is reported as a *clierrors.StorageError.
type Registry interface {
	// Get returns the address recorded for [name] in [bundle], if any
	Get(bundle string, name string) (common.Address, bool, error)
	GetRecord(bundle string, name string) (Record, bool, error)
	// Put records [address]. Putting the address already recorded is a no-op,
	// a different address replaces it.
	Put(bundle string, name string, address common.Address) error
	PutRecord(bundle string, record Record) error
	// List returns the records of [bundle] sorted by name
	List(bundle string) ([]Record, error)
	// Lock reserves [bundle] for one run. It fails with
	// clierrors.ErrBundleLocked when the bundle is already reserved.
	Lock(bundle string) (func() error, error)
	Close() error
}

// NetworkDir is where the registries of [network] live
func NetworkDir(baseDir string, network string) string {
	return filepath.Join(baseDir, constants.DeploymentsDir, network)
}

// Open returns the registry [backend] for [network] under [baseDir]
func Open(log logging.Logger, fs afero.Fs, baseDir string, network string, backend string) (Registry, error) {
	dir := NetworkDir(baseDir, network)
	switch backend {
	case "", constants.FileRegistryBackend:
		return NewFileRegistry(log, fs, dir), nil
	case constants.LevelDBRegistryBackend:
		return NewLevelDBRegistry(log, filepath.Join(dir, constants.LevelDBDirName))
	default:
		return nil, fmt.Errorf("%w: %q, expected %s or %s", clierrors.ErrNoRegistryBackend, backend,
			constants.FileRegistryBackend, constants.LevelDBRegistryBackend)
	}
}

func storageError(op string, bundle string, err error) error {
	return &clierrors.StorageError{Op: op, Bundle: bundle, Cause: err}
}
