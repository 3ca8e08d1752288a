/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package orderer

import (
	reqContext "context"
	"net"
	"testing"
	"time"

	"github.com/hyperledger/fabric-protos-go/common"
	po "github.com/hyperledger/fabric-protos-go/orderer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/status"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/test/mockmsp"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/comm"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/mocks"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/resource"
)

const testAddress = "127.0.0.1:0"

func startOrderer(t *testing.T, srv *mocks.MockBroadcastServer) (*Orderer, func()) {
	addr := srv.Start(testAddress)
	o, err := New(WithURL("grpc://"+addr), WithConnectionOptions(comm.WithConnectTimeout(time.Second)))
	require.NoError(t, err)
	return o, srv.Stop
}

func TestNew(t *testing.T) {
	_, err := New()
	assert.Error(t, err, "url is required")

	o, err := New(FromOrdererConfig(&fab.OrdererConfig{
		Name: "orderer.example.com",
		URL:  "grpcs://orderer.example.com:7050",
		GRPCOptions: map[string]interface{}{
			"ssl-target-name-override": "orderer.example.com",
			"fail-fast":                false,
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, "grpcs://orderer.example.com:7050", o.URL())

	_, err = New(FromOrdererConfig(nil))
	assert.Error(t, err)
}

func TestSendBroadcast(t *testing.T) {
	srv := &mocks.MockBroadcastServer{}
	o, stop := startOrderer(t, srv)
	defer stop()

	resp, err := o.SendBroadcast(reqContext.Background(), &fab.SignedEnvelope{Payload: []byte("p"), Signature: []byte("s")})
	require.NoError(t, err)
	assert.Equal(t, fab.BroadcastSuccess, resp.Status)
	require.Len(t, srv.Broadcasts(), 1)
	assert.Equal(t, []byte("s"), srv.Broadcasts()[0].Signature)

	_, err = o.SendBroadcast(reqContext.Background(), nil)
	assert.Error(t, err)
}

func TestSendBroadcastServiceUnavailable(t *testing.T) {
	info := "will not enqueue, consenter for this channel hasn't started yet"
	srv := &mocks.MockBroadcastServer{
		BroadcastResponses: []*po.BroadcastResponse{{Status: common.Status_SERVICE_UNAVAILABLE, Info: info}},
	}
	o, stop := startOrderer(t, srv)
	defer stop()

	resp, err := o.SendBroadcast(reqContext.Background(), &fab.SignedEnvelope{})
	require.NoError(t, err)
	assert.Equal(t, fab.BroadcastServiceUnavailable, resp.Status)
	assert.Equal(t, info, resp.Info)
}

func TestSendBroadcastError(t *testing.T) {
	srv := &mocks.MockBroadcastServer{BroadcastError: errors.New("broadcast refused")}
	o, stop := startOrderer(t, srv)
	defer stop()

	_, err := o.SendBroadcast(reqContext.Background(), &fab.SignedEnvelope{})
	require.Error(t, err)
	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, status.GRPCTransportStatus, s.Group)
	assert.Contains(t, s.Message, "broadcast refused")
}

func TestSendDeliver(t *testing.T) {
	srv := &mocks.MockBroadcastServer{}
	o, stop := startOrderer(t, srv)
	defer stop()

	env, err := resource.CreateSeekEnvelope(mockmsp.NewMockSigningIdentity("admin", "Org1MSP"), "mychannel", resource.NewSpecificSeekPosition(0))
	require.NoError(t, err)

	block, err := o.SendDeliver(reqContext.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), block.Header.Number)

	channelID, err := resource.ChannelIDFromBlock(block)
	require.NoError(t, err)
	assert.Equal(t, "mychannel", channelID)
	require.Len(t, srv.Seeks(), 1)
}

func TestSendDeliverStatus(t *testing.T) {
	srv := &mocks.MockBroadcastServer{DeliverStatus: common.Status_NOT_FOUND}
	o, stop := startOrderer(t, srv)
	defer stop()

	env, err := resource.CreateSeekEnvelope(mockmsp.NewMockSigningIdentity("admin", "Org1MSP"), "mychannel", resource.NewSpecificSeekPosition(0))
	require.NoError(t, err)

	_, err = o.SendDeliver(reqContext.Background(), env)
	require.Error(t, err)
	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, status.OrdererServerStatus, s.Group)
	assert.Equal(t, int32(common.Status_NOT_FOUND), s.Code)
}

func TestPing(t *testing.T) {
	srv := &mocks.MockBroadcastServer{}
	o, stop := startOrderer(t, srv)

	alive, err := o.Ping(reqContext.Background())
	require.NoError(t, err)
	assert.True(t, alive)

	stop()

	alive, err = o.Ping(reqContext.Background())
	require.Error(t, err)
	assert.False(t, alive)
	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, status.OrdererClientStatus, s.Group)
	assert.EqualValues(t, status.ConnectionFailed, s.Code)

	ctx, cancel := reqContext.WithCancel(reqContext.Background())
	cancel()
	_, err = o.Ping(ctx)
	assert.Error(t, err)
}

func TestSendBroadcastConnectionFailed(t *testing.T) {
	lis, err := net.Listen("tcp", testAddress)
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	o, err := New(WithURL("grpc://"+addr), WithConnectionOptions(comm.WithConnectTimeout(100*time.Millisecond)))
	require.NoError(t, err)

	_, err = o.SendBroadcast(reqContext.Background(), &fab.SignedEnvelope{})
	assert.Error(t, err)
}
