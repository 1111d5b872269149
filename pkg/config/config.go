// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fujidao/fujideploy/pkg/constants"
	"github.com/fujidao/fujideploy/pkg/utils"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config fronts the process wide viper instance holding the CLI config file
// and the FUJIDEPLOY_* environment
type Config struct{}

func New() *Config {
	return &Config{}
}

func (*Config) SetConfig(log logging.Logger, s string) {
	viper.SetConfigType("json")
	viper.AddConfigPath(filepath.Dir(s))
	viper.SetConfigFile(s)
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info("Using config file", zap.String("config-file", s))
	} else {
		log.Info("No config file found", zap.String("config-file", s))
	}
}

func (*Config) GetConfigPath() string {
	return viper.ConfigFileUsed()
}

func (c *Config) ConfigFileExists() bool {
	return utils.FileExists(c.GetConfigPath())
}

// SetConfigValue sets the value of a configuration key and persists it.
func (*Config) SetConfigValue(key string, value interface{}) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

func (*Config) ConfigValueIsSet(key string) bool {
	return viper.IsSet(key)
}

func (*Config) GetConfigStringValue(key string) string {
	return viper.GetString(key)
}

func (*Config) GetConfigDurationValue(key string) time.Duration {
	return viper.GetDuration(key)
}

// Settings are the run settings the deploy command needs, after flags,
// environment and config file have been layered by viper.
type Settings struct {
	Network         string
	RPCURL          string
	PrivateKey      string
	ArtifactsDir    string
	LiteralsFile    string
	RegistryBackend string
	ConfirmTimeout  time.Duration
}

func (c *Config) Settings() Settings {
	s := Settings{
		Network:         c.GetConfigStringValue(constants.ConfigNetworkKey),
		RPCURL:          c.GetConfigStringValue(constants.ConfigRPCURLKey),
		PrivateKey:      c.GetConfigStringValue(constants.ConfigPrivateKeyKey),
		ArtifactsDir:    c.GetConfigStringValue(constants.ConfigArtifactsDirKey),
		LiteralsFile:    c.GetConfigStringValue(constants.ConfigLiteralsFileKey),
		RegistryBackend: c.GetConfigStringValue(constants.ConfigRegistryBackendKey),
		ConfirmTimeout:  c.GetConfigDurationValue(constants.ConfigConfirmTimeoutKey),
	}
	if s.Network == "" {
		s.Network = constants.DefaultNetwork
	}
	if s.ArtifactsDir == "" {
		s.ArtifactsDir = constants.DefaultArtifactsDir
	}
	if s.RegistryBackend == "" {
		s.RegistryBackend = constants.FileRegistryBackend
	}
	if s.ConfirmTimeout <= 0 {
		s.ConfirmTimeout = constants.DefaultConfirmationTimeout
	}
	return s
}
