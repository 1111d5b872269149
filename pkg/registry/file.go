// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fujidao/fujideploy/pkg/clierrors"
	"github.com/fujidao/fujideploy/pkg/constants"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/libevm/common"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type bundleDocument struct {
	Bundle    string             `json:"bundle"`
	Contracts map[string]*Record `json:"contracts"`
}

// FileRegistry keeps one JSON document per bundle. Documents are replaced
// atomically with a rename. On the OS filesystem a bundle lock is also an
// flock on <bundle>.lock, so it holds across processes.
type FileRegistry struct {
	log       logging.Logger
	fs        afero.Fs
	dir       string
	lockFiles bool
	now       func() time.Time

	lock  sync.Mutex
	held  map[string]*flock.Flock
	cache map[string]*bundleDocument
}

var _ Registry = (*FileRegistry)(nil)

func NewFileRegistry(log logging.Logger, fs afero.Fs, dir string) *FileRegistry {
	_, onDisk := fs.(*afero.OsFs)
	return &FileRegistry{
		log:       log,
		fs:        fs,
		dir:       dir,
		lockFiles: onDisk,
		now:       time.Now,
		held:      map[string]*flock.Flock{},
		cache:     map[string]*bundleDocument{},
	}
}

func (r *FileRegistry) bundlePath(bundle string) string {
	return filepath.Join(r.dir, bundle+constants.RegistryFileSuffix)
}

func (r *FileRegistry) lockPath(bundle string) string {
	return filepath.Join(r.dir, bundle+constants.RegistryLockSuffix)
}

func (r *FileRegistry) Lock(bundle string) (func() error, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.held[bundle]; ok {
		return nil, fmt.Errorf("%w: %s", clierrors.ErrBundleLocked, bundle)
	}
	var fileLock *flock.Flock
	if r.lockFiles {
		if err := r.fs.MkdirAll(r.dir, constants.DefaultPerms755); err != nil {
			return nil, storageError("lock", bundle, err)
		}
		fileLock = flock.New(r.lockPath(bundle))
		locked, err := fileLock.TryLock()
		if err != nil {
			return nil, storageError("lock", bundle, err)
		}
		if !locked {
			return nil, fmt.Errorf("%w: %s is held by another process", clierrors.ErrBundleLocked, r.lockPath(bundle))
		}
	}
	r.held[bundle] = fileLock
	// a locked bundle is re-read from disk on first access
	delete(r.cache, bundle)

	return func() error {
		r.lock.Lock()
		defer r.lock.Unlock()
		fl, ok := r.held[bundle]
		if !ok {
			return nil
		}
		delete(r.held, bundle)
		// unlocked reads go to disk again
		delete(r.cache, bundle)
		if fl == nil {
			return nil
		}
		if err := fl.Unlock(); err != nil {
			return storageError("unlock", bundle, err)
		}
		return nil
	}, nil
}

// load returns the document of [bundle]. Must hold [r.lock].
func (r *FileRegistry) load(bundle string) (*bundleDocument, error) {
	if _, locked := r.held[bundle]; locked {
		if doc, ok := r.cache[bundle]; ok {
			return doc, nil
		}
	}
	doc := &bundleDocument{Bundle: bundle, Contracts: map[string]*Record{}}
	data, err := afero.ReadFile(r.fs, r.bundlePath(bundle))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, storageError("read", bundle, err)
	default:
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, storageError("parse", bundle, fmt.Errorf("%s: %w", r.bundlePath(bundle), err))
		}
		if doc.Contracts == nil {
			doc.Contracts = map[string]*Record{}
		}
		for name, record := range doc.Contracts {
			record.Name = name
		}
	}
	if _, locked := r.held[bundle]; locked {
		r.cache[bundle] = doc
	}
	return doc, nil
}

// store atomically replaces the document of [bundle]. Must hold [r.lock].
func (r *FileRegistry) store(doc *bundleDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return storageError("encode", doc.Bundle, err)
	}
	if err := r.fs.MkdirAll(r.dir, constants.DefaultPerms755); err != nil {
		return storageError("write", doc.Bundle, err)
	}
	path := r.bundlePath(doc.Bundle)
	tmp := path + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, data, constants.WriteReadReadPerms); err != nil {
		return storageError("write", doc.Bundle, err)
	}
	if err := r.fs.Rename(tmp, path); err != nil {
		_ = r.fs.Remove(tmp)
		return storageError("write", doc.Bundle, err)
	}
	return nil
}

func (r *FileRegistry) Get(bundle string, name string) (common.Address, bool, error) {
	record, ok, err := r.GetRecord(bundle, name)
	return record.Address, ok, err
}

func (r *FileRegistry) GetRecord(bundle string, name string) (Record, bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	doc, err := r.load(bundle)
	if err != nil {
		return Record{}, false, err
	}
	record, ok := doc.Contracts[name]
	if !ok {
		return Record{}, false, nil
	}
	return *record, true, nil
}

func (r *FileRegistry) Put(bundle string, name string, address common.Address) error {
	return r.PutRecord(bundle, Record{Name: name, Address: address})
}

func (r *FileRegistry) PutRecord(bundle string, record Record) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	doc, err := r.load(bundle)
	if err != nil {
		return err
	}
	prev, ok := doc.Contracts[record.Name]
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
	doc.Contracts[record.Name] = &record
	if err := r.store(doc); err != nil {
		// keep memory and disk in agreement
		if ok {
			doc.Contracts[record.Name] = prev
		} else {
			delete(doc.Contracts, record.Name)
		}
		return err
	}
	return nil
}

func (r *FileRegistry) List(bundle string) ([]Record, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	doc, err := r.load(bundle)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(doc.Contracts))
	for _, record := range doc.Contracts {
		records = append(records, *record)
	}
	slices.SortFunc(records, func(a, b Record) int {
		return strings.Compare(a.Name, b.Name)
	})
	return records, nil
}

func (r *FileRegistry) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	var errs []error
	for bundle, fl := range r.held {
		if fl != nil {
			if err := fl.Unlock(); err != nil {
				errs = append(errs, storageError("unlock", bundle, err))
			}
		}
		delete(r.held, bundle)
		delete(r.cache, bundle)
	}
	return errors.Join(errs...)
}
