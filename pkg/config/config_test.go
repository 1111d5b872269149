// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fujidao/fujideploy/pkg/constants"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func Test_Settings_FromConfigFile(t *testing.T) {
	assert := assert.New(t)
	viper.Reset()
	t.Cleanup(viper.Reset)

	cf := New()
	cf.SetConfig(logging.NoLog{}, filepath.Join("testdata", "config.json"))
	assert.True(cf.ConfigFileExists())

	s := cf.Settings()
	assert.Equal("local", s.Network)
	assert.Equal("http://127.0.0.1:9650/ext/bc/C/rpc", s.RPCURL)
	assert.Equal(45*time.Second, s.ConfirmTimeout)
	assert.Equal(constants.DefaultArtifactsDir, s.ArtifactsDir)
	assert.Equal(constants.FileRegistryBackend, s.RegistryBackend)
}

func Test_Settings_Environment(t *testing.T) {
	assert := assert.New(t)
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("FUJIDEPLOY_PRIVATE_KEY", "0xabc")
	t.Setenv("FUJIDEPLOY_NETWORK", "mainnet")

	cf := New()
	cf.SetConfig(logging.NoLog{}, filepath.Join(t.TempDir(), "missing.json"))
	assert.False(cf.ConfigFileExists())

	s := cf.Settings()
	assert.Equal("0xabc", s.PrivateKey)
	assert.Equal("mainnet", s.Network)
	assert.Equal(constants.DefaultConfirmationTimeout, s.ConfirmTimeout)
}

func Test_Settings_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	s := New().Settings()
	assert.Equal(t, constants.DefaultNetwork, s.Network)
	assert.Empty(t, s.RPCURL)
}
