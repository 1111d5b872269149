// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"encoding/hex"
	"testing"

	"github.com/fujidao/fujideploy/pkg/clierrors"

	"github.com/ava-labs/libevm/crypto"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestLoadPrivateKey(t *testing.T) {
	require := require.New(t)
	key, err := crypto.GenerateKey()
	require.NoError(err)
	keyHex := hex.EncodeToString(crypto.FromECDSA(key))
	expected := crypto.PubkeyToAddress(key.PublicKey)

	fs := afero.NewMemMapFs()
	require.NoError(afero.WriteFile(fs, "/keys/deployer.pk", []byte(keyHex+"\n"), 0o600))

	for _, input := range []string{keyHex, "0x" + keyHex, "0X" + keyHex, " " + keyHex + " ", "/keys/deployer.pk"} {
		loaded, err := LoadPrivateKey(fs, input)
		require.NoError(err)
		require.Equal(expected, crypto.PubkeyToAddress(loaded.PublicKey))
	}

	for _, input := range []string{"", "0x1234", "/keys/missing.pk"} {
		_, err := LoadPrivateKey(fs, input)
		require.ErrorIs(err, clierrors.ErrInvalidPrivateKey)
	}
}
