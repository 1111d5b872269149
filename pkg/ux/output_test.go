// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ux

import (
	"bytes"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestConvertToStringWithThousandSeparator(t *testing.T) {
	require.Equal(t, "0", ConvertToStringWithThousandSeparator(0))
	require.Equal(t, "21_000", ConvertToStringWithThousandSeparator(21_000))
	require.Equal(t, "12_345_678", ConvertToStringWithThousandSeparator(12345678))
}

func TestPrintToUser(t *testing.T) {
	var buf bytes.Buffer
	ul := &UserLog{log: logging.NoLog{}, Writer: &buf}
	ul.PrintToUser("deployed %s", "FujiAdmin")
	require.Contains(t, buf.String(), "deployed FujiAdmin\n")

	color.NoColor = true
	buf.Reset()
	ul.GreenCheckmarkToUser("done")
	require.Contains(t, buf.String(), "✓ done")
}
