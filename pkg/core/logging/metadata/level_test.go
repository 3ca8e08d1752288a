/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metadata

import (
	"testing"

	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/api"
	"github.com/stretchr/testify/assert"
)

func TestLogLevels(t *testing.T) {

	mlevel := ModuleLevels{}

	mlevel.SetLevel("join-channel", api.DEBUG)
	mlevel.SetLevel("create-channel", api.WARNING)

	assert.True(t, mlevel.IsEnabledFor("join-channel", api.DEBUG))
	assert.True(t, mlevel.IsEnabledFor("join-channel", api.ERROR))

	assert.False(t, mlevel.IsEnabledFor("create-channel", api.INFO))
	assert.True(t, mlevel.IsEnabledFor("create-channel", api.WARNING))
	assert.True(t, mlevel.IsEnabledFor("create-channel", api.ERROR))

	//default log level is info
	assert.True(t, mlevel.IsEnabledFor("channel", api.INFO))
	assert.False(t, mlevel.IsEnabledFor("channel", api.DEBUG))

	mlevel.SetLevel("", api.ERROR)
	assert.False(t, mlevel.IsEnabledFor("channel", api.WARNING))
	assert.True(t, mlevel.IsEnabledFor("join-channel", api.DEBUG))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	assert.NoError(t, err)
	assert.Equal(t, api.DEBUG, level)

	level, err = ParseLevel("WARN")
	assert.NoError(t, err)
	assert.Equal(t, api.WARNING, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)

	assert.Equal(t, "INFO", ParseString(api.INFO))
	assert.Equal(t, "UNKNOWN", ParseString(api.Level(42)))
}
