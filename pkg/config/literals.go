// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"github.com/fujidao/fujideploy/pkg/plan"
	"github.com/fujidao/fujideploy/pkg/utils"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	bundlesKey = "bundles"
	assetsKey  = "assets"

	assetAddressField = "address"
	assetOracleField  = "oracle"
)

//go:embed defaults/literals.yaml
var defaultLiterals []byte

// LoadLiterals builds the literal map a plan of [bundle] is resolved against.
// The embedded defaults are read first, then [literalsPath] (when not empty)
// is merged over them. Keys under bundles.<bundle> are lifted to the top
// level, and the asset table gets its derived keys:
//
//	assets.addresses  every assets.<symbol>.address, sorted by symbol
//	assets.oracles    every assets.<symbol>.oracle, in the same order
func LoadLiterals(log logging.Logger, fs afero.Fs, literalsPath string, bundle string) (plan.Literals, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultLiterals)); err != nil {
		return nil, fmt.Errorf("failure reading default literals: %w", err)
	}
	if literalsPath != "" {
		literalsPath = utils.ExpandHome(literalsPath)
		if exists, err := afero.Exists(fs, literalsPath); err != nil || !exists {
			return nil, fmt.Errorf("literals file %s not found", literalsPath)
		}
		v.SetConfigFile(literalsPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failure reading literals file %s: %w", literalsPath, err)
		}
		log.Info("merged literals file", zap.String("path", literalsPath), zap.String("bundle", bundle))
	}

	settings := v.AllSettings()
	perBundle := v.GetStringMap(bundlesKey + "." + strings.ToLower(bundle))
	delete(settings, bundlesKey)

	literals := plan.NewLiterals(settings)
	for k, value := range perBundle {
		literals.Set(k, value)
	}
	if err := deriveAssetKeys(literals); err != nil {
		return nil, err
	}
	return literals, nil
}

func deriveAssetKeys(literals plan.Literals) error {
	prefix := assetsKey + "."
	symbols := []string{}
	for _, key := range literals.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		parts := strings.Split(strings.TrimPrefix(key, prefix), ".")
		if len(parts) != 2 {
			continue
		}
		symbols = append(symbols, parts[0])
	}
	symbols = utils.Unique(symbols)
	if len(symbols) == 0 {
		return nil
	}
	slices.Sort(symbols)
	addresses := make([]any, 0, len(symbols))
	oracles := make([]any, 0, len(symbols))
	for _, symbol := range symbols {
		address, ok := literals.Lookup(prefix + symbol + "." + assetAddressField)
		if !ok {
			return fmt.Errorf("asset %s has no %s", symbol, assetAddressField)
		}
		oracle, ok := literals.Lookup(prefix + symbol + "." + assetOracleField)
		if !ok {
			return fmt.Errorf("asset %s has no %s", symbol, assetOracleField)
		}
		addresses = append(addresses, address)
		oracles = append(oracles, oracle)
	}
	literals.Set(prefix+"addresses", addresses)
	literals.Set(prefix+"oracles", oracles)
	return nil
}
