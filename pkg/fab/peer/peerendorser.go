/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package peer

import (
	reqContext "context"
	"time"

	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/status"
	"github.com/fabsetup/fabric-setup-go/pkg/common/logging"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/comm"
)

// peerEndorser enables access to a GRPC-based endorser for running transaction proposal simulations
type peerEndorser struct {
	connector       *comm.Connector
	target          string
	responseTimeout time.Duration
	logger          *logging.Logger
}

// ProcessTransactionProposal sends the transaction proposal to a peer and returns the response.
// gRPC failures come back as GRPCTransportStatus errors; responses with an
// error status (>= 400) come back as EndorserServerStatus errors along with the response.
func (p *peerEndorser) ProcessTransactionProposal(ctx reqContext.Context, request fab.ProcessProposalRequest) (*fab.TransactionProposalResponse, error) {
	p.logger.Debugf("Processing proposal using endorser: %s", p.target)

	if request.SignedProposal == nil {
		return nil, errors.New("signed proposal is required")
	}

	proposalResponse, err := p.sendProposal(ctx, request)
	if err != nil {
		tpr := fab.TransactionProposalResponse{Endorser: p.target}
		return &tpr, errors.WithMessagef(err, "Transaction processing for endorser [%s]", p.target)
	}

	tpr := fab.TransactionProposalResponse{
		ProposalResponse: proposalResponse,
		Endorser:         p.target,
		Status:           proposalResponse.GetResponse().GetStatus(),
	}
	return &tpr, extractErrorFromResponse(proposalResponse, p.target)
}

func (p *peerEndorser) conn(ctx reqContext.Context) (*grpc.ClientConn, error) {
	conn, err := p.connector.DialContext(ctx)
	if err != nil {
		if rpcStatus, ok := grpcstatus.FromError(errors.Cause(err)); ok {
			return nil, errors.WithMessage(status.NewFromGRPCStatus(rpcStatus), "connection failed")
		}
		return nil, status.New(status.EndorserClientStatus, status.ConnectionFailed.ToInt32(), err.Error(), []interface{}{p.target})
	}
	return conn, nil
}

func (p *peerEndorser) releaseConn(conn *grpc.ClientConn) {
	if err := conn.Close(); err != nil {
		p.logger.Debugf("unable to close connection [%s]", err)
	}
}

func (p *peerEndorser) sendProposal(ctx reqContext.Context, proposal fab.ProcessProposalRequest) (*pb.ProposalResponse, error) {
	conn, err := p.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer p.releaseConn(conn)

	ctx, cancel := reqContext.WithTimeout(ctx, p.responseTimeout)
	defer cancel()

	resp, err := pb.NewEndorserClient(conn).ProcessProposal(ctx, proposal.SignedProposal)
	if err != nil {
		p.logger.Errorf("process proposal failed [%s]", err)
		if rpcStatus, ok := grpcstatus.FromError(err); ok {
			return nil, status.NewFromGRPCStatus(rpcStatus)
		}
		return nil, err
	}
	if resp.GetResponse() == nil {
		return nil, errors.New("proposal response carries no response")
	}
	return resp, nil
}

// extractErrorFromResponse converts a response with an error status into an error
func extractErrorFromResponse(resp *pb.ProposalResponse, endorser string) error {
	if resp.Response.Status >= int32(common.Status_BAD_REQUEST) {
		return status.NewFromProposalResponse(resp, endorser)
	}
	return nil
}
