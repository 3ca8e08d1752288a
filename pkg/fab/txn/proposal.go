/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txn

import (
	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"

	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/msp"
)

// ChaincodeInvokeRequest contains the parameters for sending a proposal to a
// system chaincode.
type ChaincodeInvokeRequest struct {
	ChaincodeID string
	Fcn         string
	Args        [][]byte
}

// CreateChaincodeInvokeProposal creates an endorser transaction proposal on the
// given channel. An empty channel targets the peer's system scope.
func CreateChaincodeInvokeProposal(txh *fab.TransactionHeader, channelID string, request ChaincodeInvokeRequest) (*pb.Proposal, error) {
	if request.ChaincodeID == "" {
		return nil, errors.New("ChaincodeID is required")
	}

	if request.Fcn == "" {
		return nil, errors.New("Fcn is required")
	}

	// Add function name to arguments
	argsArray := make([][]byte, len(request.Args)+1)
	argsArray[0] = []byte(request.Fcn)
	for i, arg := range request.Args {
		argsArray[i+1] = arg
	}

	ccis := &pb.ChaincodeInvocationSpec{ChaincodeSpec: &pb.ChaincodeSpec{
		Type:        pb.ChaincodeSpec_GOLANG,
		ChaincodeId: &pb.ChaincodeID{Name: request.ChaincodeID},
		Input:       &pb.ChaincodeInput{Args: argsArray},
	}}
	ccisBytes, err := proto.Marshal(ccis)
	if err != nil {
		return nil, errors.Wrap(err, "marshal invocation spec failed")
	}

	ccPropPayloadBytes, err := proto.Marshal(&pb.ChaincodeProposalPayload{Input: ccisBytes})
	if err != nil {
		return nil, errors.Wrap(err, "marshal chaincode proposal payload failed")
	}

	channelHeader, err := CreateChannelHeader(common.HeaderType_ENDORSER_TRANSACTION, ChannelHeaderOpts{
		ChannelID:   channelID,
		TxnHeader:   txh,
		ChaincodeID: request.ChaincodeID,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "channel header creation failed")
	}

	header, err := CreateHeader(txh, channelHeader)
	if err != nil {
		return nil, errors.WithMessage(err, "header creation failed")
	}
	headerBytes, err := proto.Marshal(header)
	if err != nil {
		return nil, errors.Wrap(err, "marshal header failed")
	}

	return &pb.Proposal{Header: headerBytes, Payload: ccPropPayloadBytes}, nil
}

// SignProposal signs the proposal with the signer
func SignProposal(signer msp.SigningIdentity, proposal *pb.Proposal) (*pb.SignedProposal, error) {
	proposalBytes, err := proto.Marshal(proposal)
	if err != nil {
		return nil, errors.Wrap(err, "mashal proposal failed")
	}

	signature, err := signer.Sign(proposalBytes)
	if err != nil {
		return nil, errors.WithMessage(err, "sign failed")
	}

	return &pb.SignedProposal{ProposalBytes: proposalBytes, Signature: signature}, nil
}
