/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"context"
	"fmt"
	"net"
	"sync"

	pb "github.com/hyperledger/fabric-protos-go/peer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// MockEndorserServer mock endoreser server to process endorsement proposals
type MockEndorserServer struct {
	Creds         credentials.TransportCredentials
	ProposalError error
	// Response overrides the default 200 response
	Response *pb.Response

	mtx       sync.Mutex
	proposals []*pb.SignedProposal
	srv       *grpc.Server
	wg        sync.WaitGroup
}

// ProcessProposal mock implementation that returns success if error is not set
// error if it is
func (m *MockEndorserServer) ProcessProposal(ctx context.Context, proposal *pb.SignedProposal) (*pb.ProposalResponse, error) {
	m.mtx.Lock()
	m.proposals = append(m.proposals, proposal)
	m.mtx.Unlock()

	if m.ProposalError != nil {
		return nil, m.ProposalError
	}

	response := m.Response
	if response == nil {
		response = &pb.Response{Status: 200}
	}
	return &pb.ProposalResponse{
		Response:    response,
		Endorsement: &pb.Endorsement{Endorser: []byte("endorser"), Signature: []byte("signature")},
	}, nil
}

// Proposals returns the proposals received so far
func (m *MockEndorserServer) Proposals() []*pb.SignedProposal {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return append([]*pb.SignedProposal{}, m.proposals...)
}

// Start the mock endorser server
func (m *MockEndorserServer) Start(address string) string {
	if m.srv != nil {
		panic("MockEndorserServer already started")
	}

	// pass in TLS creds if present
	if m.Creds != nil {
		m.srv = grpc.NewServer(grpc.Creds(m.Creds))
	} else {
		m.srv = grpc.NewServer()
	}

	lis, err := net.Listen("tcp", address)
	if err != nil {
		panic(fmt.Sprintf("Error starting EndorserServer %s", err))
	}
	addr := lis.Addr().String()

	pb.RegisterEndorserServer(m.srv, m)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.srv.Serve(lis) //nolint: errcheck
	}()

	return addr
}

// Stop the mock endorser server and wait for completion.
func (m *MockEndorserServer) Stop() {
	if m.srv == nil {
		panic("MockEndorserServer not started")
	}

	m.srv.Stop()
	m.wg.Wait()
	m.srv = nil
}
