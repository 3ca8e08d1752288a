/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resource

import (
	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"

	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/msp"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/txn"
)

const (
	cscc            = "cscc"
	csccJoinChannel = "JoinChain"
)

// CreateJoinChannelProposal creates a signed cscc JoinChain proposal carrying
// the channel's genesis block.
func CreateJoinChannelProposal(signer msp.SigningIdentity, txh *fab.TransactionHeader, genesisBlock *common.Block) (*pb.SignedProposal, error) {
	if genesisBlock == nil {
		return nil, errors.New("missing block input parameter with the required genesis block")
	}

	genesisBlockBytes, err := proto.Marshal(genesisBlock)
	if err != nil {
		return nil, errors.Wrap(err, "marshal genesis block failed")
	}

	cir := txn.ChaincodeInvokeRequest{
		ChaincodeID: cscc,
		Fcn:         csccJoinChannel,
		Args:        [][]byte{genesisBlockBytes},
	}

	proposal, err := txn.CreateChaincodeInvokeProposal(txh, "", cir)
	if err != nil {
		return nil, errors.WithMessage(err, "creation of join channel proposal failed")
	}

	return txn.SignProposal(signer, proposal)
}
