// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/fujidao/fujideploy/pkg/application"
	"github.com/fujidao/fujideploy/pkg/config"
	"github.com/fujidao/fujideploy/pkg/constants"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func SetupTest(t *testing.T) *require.Assertions {
	// use io.Discard to not print anything
	ux.NewUserLog(logging.NoLog{}, io.Discard)
	return require.New(t)
}

// SetupTestInTempDir returns an app rooted in a fresh temporary base dir on
// the os filesystem, its config file being config.json in that dir
func SetupTestInTempDir(t *testing.T) *application.FujiDeploy {
	testDir := t.TempDir()

	conf := config.New()
	conf.SetConfig(logging.NoLog{}, filepath.Join(testDir, constants.ConfigFileName))
	app := application.New()
	app.Setup(testDir, logging.NoLog{}, conf, afero.NewOsFs())
	return app
}
