// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fujidao/fujideploy/pkg/clierrors"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/libevm/common"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"
)

const keySeparator = "/"

// LevelDBRegistry stores every bundle of a network in one goleveldb
// database, keyed by <bundle>/<name>. The database directory lock keeps a
// second process out for as long as the registry is open.
type LevelDBRegistry struct {
	log logging.Logger
	db  *leveldb.DB
	now func() time.Time

	lock sync.Mutex
	held map[string]struct{}
}

var _ Registry = (*LevelDBRegistry)(nil)

func NewLevelDBRegistry(log logging.Logger, path string) (*LevelDBRegistry, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, storageError("open", "", fmt.Errorf("%s: %w", path, err))
	}
	return newLevelDBRegistry(log, db), nil
}

// NewLevelDBRegistryFromStorage opens the registry over an arbitrary
// goleveldb storage, such as storage.NewMemStorage()
func NewLevelDBRegistryFromStorage(log logging.Logger, stor storage.Storage) (*LevelDBRegistry, error) {
	db, err := leveldb.Open(stor, nil)
	if err != nil {
		return nil, storageError("open", "", err)
	}
	return newLevelDBRegistry(log, db), nil
}

func newLevelDBRegistry(log logging.Logger, db *leveldb.DB) *LevelDBRegistry {
	return &LevelDBRegistry{
		log:  log,
		db:   db,
		now:  time.Now,
		held: map[string]struct{}{},
	}
}

func recordKey(bundle string, name string) []byte {
	return []byte(bundle + keySeparator + name)
}

func (r *LevelDBRegistry) Lock(bundle string) (func() error, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.held[bundle]; ok {
		return nil, fmt.Errorf("%w: %s", clierrors.ErrBundleLocked, bundle)
	}
	r.held[bundle] = struct{}{}
	return func() error {
		r.lock.Lock()
		defer r.lock.Unlock()
		delete(r.held, bundle)
		return nil
	}, nil
}

func (r *LevelDBRegistry) Get(bundle string, name string) (common.Address, bool, error) {
	record, ok, err := r.GetRecord(bundle, name)
	return record.Address, ok, err
}

func (r *LevelDBRegistry) GetRecord(bundle string, name string) (Record, bool, error) {
	data, err := r.db.Get(recordKey(bundle, name), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, storageError("read", bundle, err)
	}
	record := Record{}
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, false, storageError("parse", bundle, fmt.Errorf("key %s: %w", recordKey(bundle, name), err))
	}
	record.Name = name
	return record, true, nil
}

func (r *LevelDBRegistry) Put(bundle string, name string, address common.Address) error {
	return r.PutRecord(bundle, Record{Name: name, Address: address})
}

func (r *LevelDBRegistry) PutRecord(bundle string, record Record) error {
	prev, ok, err := r.GetRecord(bundle, record.Name)
	if err != nil {
		return err
	}
	if ok && prev.Address == record.Address {
		return nil
	}
	if ok {
		r.log.Info("overwriting registry entry",
			zap.String("bundle", bundle),
			zap.String("name", record.Name),
			zap.Stringer("previous", prev.Address),
			zap.Stringer("address", record.Address),
		)
		if record.Contract == "" {
			record.Contract = prev.Contract
		}
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = r.now().UTC()
	}
	data, err := json.Marshal(record)
	if err != nil {
		return storageError("encode", bundle, err)
	}
	if err := r.db.Put(recordKey(bundle, record.Name), data, &opt.WriteOptions{Sync: true}); err != nil {
		return storageError("write", bundle, err)
	}
	return nil
}

func (r *LevelDBRegistry) List(bundle string) ([]Record, error) {
	prefix := bundle + keySeparator
	iter := r.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()
	records := []Record{}
	for iter.Next() {
		record := Record{}
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			return nil, storageError("parse", bundle, fmt.Errorf("key %s: %w", iter.Key(), err))
		}
		record.Name = strings.TrimPrefix(string(iter.Key()), prefix)
		records = append(records, record)
	}
	if err := iter.Error(); err != nil {
		return nil, storageError("read", bundle, err)
	}
	return records, nil
}

func (r *LevelDBRegistry) Close() error {
	if err := r.db.Close(); err != nil {
		return storageError("close", "", err)
	}
	return nil
}
