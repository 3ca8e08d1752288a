/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package kitlog

import (
	"bytes"
	"testing"

	"github.com/fabsetup/fabric-setup-go/pkg/core/logging/api"
	"github.com/stretchr/testify/assert"
)

const moduleName = "join-channel"

func TestDefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf).GetLogger(moduleName)

	logger.Debugf("genesis block for %s", "mychannel")
	assert.Empty(t, buf.String(), "debug is disabled by default")

	logger.Infof("peer joined before %s", "peer0")
	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), "module=join-channel")
	assert.Contains(t, buf.String(), `msg="peer joined before peer0"`)
}

func TestModuleLevel(t *testing.T) {
	var buf bytes.Buffer
	provider := New(&buf, WithLevel(moduleName, api.DEBUG))

	provider.GetLogger(moduleName).Debug("loop join")
	assert.Contains(t, buf.String(), "level=debug")

	buf.Reset()
	provider.GetLogger("create-channel").Debug("loop retry")
	assert.Empty(t, buf.String())

	provider.SetLevel("create-channel", api.ERROR)
	provider.GetLogger("create-channel").Warn("loop retry")
	assert.Empty(t, buf.String())

	provider.GetLogger("create-channel").Errorf("create failed: %s", "x")
	assert.Contains(t, buf.String(), "level=error")
}

func TestProvidersAreIndependent(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	p1 := New(&buf1, WithLevel("", api.DEBUG))
	p2 := New(&buf2)

	p1.GetLogger(moduleName).Debug("one")
	p2.GetLogger(moduleName).Debug("two")

	assert.Contains(t, buf1.String(), "one")
	assert.Empty(t, buf2.String())
}
