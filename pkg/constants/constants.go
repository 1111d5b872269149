// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "time"

const (
	DefaultPerms755        = 0o755
	WriteReadReadPerms     = 0o644
	WriteReadUserOnlyPerms = 0o600

	BaseDirName    = ".fujideploy"
	LogDir         = "logs"
	LogNameMain    = "fujideploy"
	DeploymentsDir = "deployments"
	ConfigFileName = "config.json"

	RegistryFileSuffix = ".json"
	RegistryLockSuffix = ".lock"
	ReportSuffix       = ".report.json"
	LastRunSuffix      = ".last-run.json"
	LevelDBDirName     = "leveldb"

	FileRegistryBackend    = "file"
	LevelDBRegistryBackend = "leveldb"

	DefaultArtifactsDir = "artifacts"
	DefaultNetwork      = "fuji"

	APIRequestTimeout          = 30 * time.Second
	APIRequestLargeTimeout     = 2 * time.Minute
	DefaultConfirmationTimeout = 3 * time.Minute

	MaxLogFileSize   = 4
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0 // retain all old log files

	// config keys, also reachable as FUJIDEPLOY_<KEY> environment variables
	EnvPrefix                = "fujideploy"
	ConfigNetworkKey         = "network"
	ConfigRPCURLKey          = "rpc-url"
	ConfigPrivateKeyKey      = "private-key"
	ConfigArtifactsDirKey    = "artifacts"
	ConfigLiteralsFileKey    = "literals"
	ConfigRegistryBackendKey = "registry-backend"
	ConfigConfirmTimeoutKey  = "confirm-timeout"
)
