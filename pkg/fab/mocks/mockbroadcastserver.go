/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mocks provides in-process gRPC orderer and endorser servers for
// transport tests.
package mocks

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/common"
	po "github.com/hyperledger/fabric-protos-go/orderer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// MockBroadcastServer mock broadcast server
type MockBroadcastServer struct {
	Creds          credentials.TransportCredentials
	BroadcastError error
	DeliverError   error
	// BroadcastResponses are returned in order; the last one repeats.
	// Empty means SUCCESS.
	BroadcastResponses []*po.BroadcastResponse
	// DeliverBlock is sent for every seek; nil means a block built from the
	// seek's channel header.
	DeliverBlock  *common.Block
	DeliverStatus common.Status

	mtx        sync.Mutex
	broadcasts []*common.Envelope
	seeks      []*po.SeekInfo
	srv        *grpc.Server
	wg         sync.WaitGroup
}

// Broadcast mock broadcast
func (m *MockBroadcastServer) Broadcast(server po.AtomicBroadcast_BroadcastServer) error {
	env, err := server.Recv()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}

	m.mtx.Lock()
	m.broadcasts = append(m.broadcasts, env)
	n := len(m.broadcasts)
	m.mtx.Unlock()

	if m.BroadcastError != nil {
		return m.BroadcastError
	}

	return server.Send(m.broadcastResponse(n - 1))
}

func (m *MockBroadcastServer) broadcastResponse(i int) *po.BroadcastResponse {
	if len(m.BroadcastResponses) == 0 {
		return &po.BroadcastResponse{Status: common.Status_SUCCESS}
	}
	if i >= len(m.BroadcastResponses) {
		i = len(m.BroadcastResponses) - 1
	}
	return m.BroadcastResponses[i]
}

// Broadcasts returns the envelopes received so far
func (m *MockBroadcastServer) Broadcasts() []*common.Envelope {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return append([]*common.Envelope{}, m.broadcasts...)
}

// Seeks returns the seek requests received so far
func (m *MockBroadcastServer) Seeks() []*po.SeekInfo {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return append([]*po.SeekInfo{}, m.seeks...)
}

// Deliver mock deliver: one block followed by the deliver status
func (m *MockBroadcastServer) Deliver(server po.AtomicBroadcast_DeliverServer) error {
	if m.DeliverError != nil {
		return m.DeliverError
	}

	env, err := server.Recv()
	if err != nil {
		return err
	}

	channelID, seekInfo, err := parseSeek(env)
	if err != nil {
		return err
	}
	m.mtx.Lock()
	m.seeks = append(m.seeks, seekInfo)
	m.mtx.Unlock()

	if m.DeliverStatus != common.Status_UNKNOWN && m.DeliverStatus != common.Status_SUCCESS {
		return server.Send(&po.DeliverResponse{Type: &po.DeliverResponse_Status{Status: m.DeliverStatus}})
	}

	block := m.DeliverBlock
	if block == nil {
		block = NewConfigBlock(channelID, seekInfo.Start.GetSpecified().GetNumber())
	}
	if err := server.Send(&po.DeliverResponse{Type: &po.DeliverResponse_Block{Block: block}}); err != nil {
		return err
	}
	return server.Send(&po.DeliverResponse{Type: &po.DeliverResponse_Status{Status: common.Status_SUCCESS}})
}

func parseSeek(env *common.Envelope) (string, *po.SeekInfo, error) {
	payload := &common.Payload{}
	if err := proto.Unmarshal(env.Payload, payload); err != nil {
		return "", nil, err
	}
	chdr := &common.ChannelHeader{}
	if payload.Header != nil {
		if err := proto.Unmarshal(payload.Header.ChannelHeader, chdr); err != nil {
			return "", nil, err
		}
	}
	seekInfo := &po.SeekInfo{}
	if err := proto.Unmarshal(payload.Data, seekInfo); err != nil {
		return "", nil, err
	}
	return chdr.ChannelId, seekInfo, nil
}

// NewConfigBlock returns a block holding a single CONFIG envelope for the channel
func NewConfigBlock(channelID string, number uint64) *common.Block {
	chdr, _ := proto.Marshal(&common.ChannelHeader{Type: int32(common.HeaderType_CONFIG), ChannelId: channelID})
	payload, _ := proto.Marshal(&common.Payload{Header: &common.Header{ChannelHeader: chdr}})
	env, _ := proto.Marshal(&common.Envelope{Payload: payload})
	return &common.Block{
		Header: &common.BlockHeader{Number: number},
		Data:   &common.BlockData{Data: [][]byte{env}},
	}
}

// Start the mock broadcast server
func (m *MockBroadcastServer) Start(address string) string {
	if m.srv != nil {
		panic("MockBroadcastServer already started")
	}

	// pass in TLS creds if present
	if m.Creds != nil {
		m.srv = grpc.NewServer(grpc.Creds(m.Creds))
	} else {
		m.srv = grpc.NewServer()
	}

	lis, err := net.Listen("tcp", address)
	if err != nil {
		panic(fmt.Sprintf("Error starting BroadcastServer %s", err))
	}
	addr := lis.Addr().String()

	po.RegisterAtomicBroadcastServer(m.srv, m)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.srv.Serve(lis) //nolint: errcheck
	}()

	return addr
}

// Stop the mock broadcast server and wait for completion.
func (m *MockBroadcastServer) Stop() {
	if m.srv == nil {
		panic("MockBroadcastServer not started")
	}

	m.srv.Stop()
	m.wg.Wait()
	m.srv = nil
}
