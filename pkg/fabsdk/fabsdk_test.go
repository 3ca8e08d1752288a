/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fabsdk

import (
	"bytes"
	reqContext "context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/hyperledger/fabric-protos-go/common"
	po "github.com/hyperledger/fabric-protos-go/orderer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabsetup/fabric-setup-go/pkg/client/resmgmt"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/test/mockfab"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/test/mockmsp"
	"github.com/fabsetup/fabric-setup-go/pkg/core/config"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/mocks"
)

const (
	testAddress = "127.0.0.1:0"
	channelID   = "mychannel"

	configTemplate = `
client:
  mspID: Org1MSP
  credentials:
    cert:
      path: admin/cert.pem
    key:
      path: ${FABSETUP_CONFIG_DIR}/admin/key.pem
  logging:
    level: error

orderers:
  orderer.example.com:
    url: grpc://%s

peers:
  peer0.org1.example.com:
    url: grpc://%s

retry:
  interval: 10ms

timeouts:
  connection: 2s
  response: 5s

metrics:
  namespace: sdktest
`
)

func writeCredentials(t *testing.T, dir string) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Admin@org1.example.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "admin"), 0700))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "admin", "cert.pem"), pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0600))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "admin", "key.pem"), pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}), 0600))
}

type network struct {
	dir      string
	orderer  *mocks.MockBroadcastServer
	endorser *mocks.MockEndorserServer
}

func setupNetwork(t *testing.T, orderer *mocks.MockBroadcastServer, endorser *mocks.MockEndorserServer) (*network, func()) {
	dir, err := ioutil.TempDir("", "fabsdk")
	require.NoError(t, err)
	writeCredentials(t, dir)

	ordererAddr := orderer.Start(testAddress)
	peerAddr := endorser.Start(testAddress)

	cfg := fmt.Sprintf(configTemplate, ordererAddr, peerAddr)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0600))

	return &network{dir: dir, orderer: orderer, endorser: endorser}, func() {
		orderer.Stop()
		endorser.Stop()
		os.RemoveAll(dir)
	}
}

func (n *network) configFile() config.Provider {
	return config.FromFile(filepath.Join(n.dir, "config.yaml"))
}

func TestNew(t *testing.T) {
	n, cleanup := setupNetwork(t, &mocks.MockBroadcastServer{}, &mocks.MockEndorserServer{})
	defer cleanup()

	sdk, err := New(n.configFile())
	require.NoError(t, err)

	assert.NotNil(t, sdk.Config())
	assert.NotNil(t, sdk.LoggerProvider())
	assert.NotNil(t, sdk.Metrics())

	signer, err := sdk.SigningIdentity()
	require.NoError(t, err)
	assert.Equal(t, "Org1MSP", signer.Identifier().MSPID)
	assert.Equal(t, "Admin@org1.example.com", signer.Identifier().ID)

	o, err := sdk.Orderer("")
	require.NoError(t, err)
	assert.Contains(t, o.URL(), "grpc://127.0.0.1:")

	_, err = sdk.Orderer("orderer9.example.com")
	assert.Error(t, err)

	p, err := sdk.Peer("peer0.org1.example.com")
	require.NoError(t, err)
	assert.Equal(t, "peer0.org1.example.com", p.Name())

	_, err = sdk.Peer("peer9.org1.example.com")
	assert.Error(t, err)
}

func TestNewErrors(t *testing.T) {
	_, err := New(config.FromFile("/does/not/exist.yaml"))
	assert.Error(t, err)

	_, err = New(config.FromRaw([]byte("{}"), "yaml"), WithSigningIdentity(nil))
	assert.Error(t, err)

	sdk, err := New(config.FromRaw([]byte("{}"), "yaml"))
	require.NoError(t, err)
	_, err = sdk.SigningIdentity()
	assert.Error(t, err, "no credentials configured")
	_, err = sdk.ResourceMgmt()
	assert.Error(t, err)
	_, err = sdk.Orderer("")
	assert.Error(t, err)

	reg := prometheus.NewRegistry()
	_, err = New(config.FromRaw([]byte("{}"), "yaml"), WithMetricsRegisterer(reg))
	require.NoError(t, err)
	_, err = New(config.FromRaw([]byte("{}"), "yaml"), WithMetricsRegisterer(reg))
	assert.Error(t, err, "collectors registered twice")
}

func TestSetupChannel(t *testing.T) {
	orderer := &mocks.MockBroadcastServer{
		BroadcastResponses: []*po.BroadcastResponse{
			{Status: common.Status_SERVICE_UNAVAILABLE, Info: "will not enqueue, consenter for this channel hasn't started yet"},
			{Status: common.Status_SUCCESS},
		},
	}
	n, cleanup := setupNetwork(t, orderer, &mocks.MockEndorserServer{})
	defer cleanup()

	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	sdk, err := New(n.configFile(), WithLogWriter(&logs), WithMetricsRegisterer(reg))
	require.NoError(t, err)

	rc, err := sdk.ResourceMgmt()
	require.NoError(t, err)

	ctx, cancel := reqContext.WithTimeout(reqContext.Background(), 10*time.Second)
	defer cancel()

	tx := bytes.NewReader(mockfab.ChannelConfigTx(channelID, []byte("config-update")))
	resp, err := rc.CreateChannel(ctx, resmgmt.CreateChannelRequest{ChannelID: channelID, ChannelConfig: tx})
	require.NoError(t, err)
	assert.Equal(t, resmgmt.Success, resp.Outcome)
	assert.Equal(t, 2, resp.Attempts)
	assert.Len(t, n.orderer.Broadcasts(), 2)

	p, err := sdk.Peer("peer0.org1.example.com")
	require.NoError(t, err)
	resp, err = rc.JoinChannel(ctx, resmgmt.JoinChannelRequest{ChannelID: channelID, Peer: p})
	require.NoError(t, err)
	assert.Equal(t, resmgmt.Success, resp.Outcome)
	assert.Len(t, n.endorser.Proposals(), 1)
	require.Len(t, n.orderer.Seeks(), 1)
	assert.Equal(t, uint64(0), n.orderer.Seeks()[0].Start.GetSpecified().GetNumber())

	orderers, err := sdk.Orderers()
	require.NoError(t, err)
	healthy, err := rc.HealthyOrderers(ctx, orderers, true)
	require.NoError(t, err)
	assert.Len(t, healthy, 1)

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "sdktest_setup_attempts_total")
	assert.Contains(t, names, "sdktest_setup_retries_total")
}

func TestResourceMgmtWithSigningIdentity(t *testing.T) {
	n, cleanup := setupNetwork(t, &mocks.MockBroadcastServer{}, &mocks.MockEndorserServer{})
	defer cleanup()

	signer := mockmsp.NewMockSigningIdentity("admin", "Org2MSP")
	sdk, err := New(n.configFile(), WithSigningIdentity(signer))
	require.NoError(t, err)

	id, err := sdk.SigningIdentity()
	require.NoError(t, err)
	assert.Equal(t, signer, id)

	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	var other fab.Orderer = mockfab.NewMockOrderer(mockCtrl)
	rc, err := sdk.ResourceMgmt(resmgmt.WithDefaultOrderer(other))
	require.NoError(t, err)
	assert.NotNil(t, rc)
}
