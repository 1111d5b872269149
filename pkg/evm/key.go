// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/fujidao/fujideploy/pkg/clierrors"
	"github.com/fujidao/fujideploy/pkg/utils"

	"github.com/ava-labs/libevm/crypto"
	"github.com/spf13/afero"
)

// LoadPrivateKey reads the deployer key. [keyOrPath] is either the hex
// encoded key, with or without 0x, or a file holding it.
func LoadPrivateKey(fs afero.Fs, keyOrPath string) (*ecdsa.PrivateKey, error) {
	keyOrPath = strings.TrimSpace(keyOrPath)
	if keyOrPath == "" {
		return nil, fmt.Errorf("%w: no private key given", clierrors.ErrInvalidPrivateKey)
	}
	keyHex := keyOrPath
	path := utils.ExpandHome(keyOrPath)
	if exists, _ := afero.Exists(fs, path); exists {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("failure reading private key file %s: %w", path, err)
		}
		keyHex = strings.TrimSpace(string(data))
	}
	key, err := crypto.HexToECDSA(utils.TrimHexa(keyHex))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", clierrors.ErrInvalidPrivateKey, err)
	}
	return key, nil
}
