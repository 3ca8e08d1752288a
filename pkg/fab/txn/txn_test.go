/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txn

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/test/mockmsp"
)

func TestNewHeader(t *testing.T) {
	signer := mockmsp.NewMockSigningIdentity("admin", "Org1MSP")

	txh, err := NewHeader(signer)
	require.NoError(t, err)
	assert.Len(t, txh.Nonce, NonceSize)

	creator, err := signer.Serialize()
	require.NoError(t, err)
	assert.Equal(t, creator, txh.Creator)

	digest := sha256.Sum256(append(append([]byte{}, txh.Nonce...), creator...))
	assert.Equal(t, hex.EncodeToString(digest[:]), string(txh.ID))

	_, err = NewHeader(nil)
	assert.Error(t, err)
}

func TestNewHeaderUniqueIDs(t *testing.T) {
	signer := mockmsp.NewMockSigningIdentity("admin", "Org1MSP")

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		txh, err := NewHeader(signer)
		require.NoError(t, err)
		assert.False(t, seen[string(txh.ID)], "duplicate transaction id %s", txh.ID)
		seen[string(txh.ID)] = true
	}
}

func TestCreateChannelHeader(t *testing.T) {
	txh, err := NewHeader(mockmsp.NewMockSigningIdentity("admin", "Org1MSP"))
	require.NoError(t, err)

	ts := time.Unix(1500000000, 0)
	ch, err := CreateChannelHeader(common.HeaderType_CONFIG_UPDATE, ChannelHeaderOpts{
		ChannelID: "mychannel",
		TxnHeader: txh,
		Timestamp: ts,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(common.HeaderType_CONFIG_UPDATE), ch.Type)
	assert.Equal(t, "mychannel", ch.ChannelId)
	assert.Equal(t, string(txh.ID), ch.TxId)
	assert.Equal(t, ts.Unix(), ch.Timestamp.Seconds)
	assert.Nil(t, ch.Extension)

	ch, err = CreateChannelHeader(common.HeaderType_ENDORSER_TRANSACTION, ChannelHeaderOpts{TxnHeader: txh, ChaincodeID: "cscc"})
	require.NoError(t, err)
	ext := &pb.ChaincodeHeaderExtension{}
	require.NoError(t, proto.Unmarshal(ch.Extension, ext))
	assert.Equal(t, "cscc", ext.ChaincodeId.Name)

	_, err = CreateChannelHeader(common.HeaderType_CONFIG_UPDATE, ChannelHeaderOpts{})
	assert.Error(t, err)
}

func TestSignPayload(t *testing.T) {
	signer := mockmsp.NewMockSigningIdentity("admin", "Org1MSP")
	txh, err := NewHeader(signer)
	require.NoError(t, err)

	ch, err := CreateChannelHeader(common.HeaderType_CONFIG_UPDATE, ChannelHeaderOpts{ChannelID: "mychannel", TxnHeader: txh})
	require.NoError(t, err)

	payload, err := CreatePayload(txh, ch, []byte("data"))
	require.NoError(t, err)

	sh := &common.SignatureHeader{}
	require.NoError(t, proto.Unmarshal(payload.Header.SignatureHeader, sh))
	assert.Equal(t, txh.Nonce, sh.Nonce)
	assert.Equal(t, txh.Creator, sh.Creator)

	env, err := SignPayload(signer, payload)
	require.NoError(t, err)
	assert.Equal(t, 1, signer.Signed)

	decoded := &common.Payload{}
	require.NoError(t, proto.Unmarshal(env.Payload, decoded))
	assert.Equal(t, []byte("data"), decoded.Data)
	assert.NotEmpty(t, env.Signature)

	signer.SignErr = errors.New("no key")
	_, err = SignPayload(signer, payload)
	assert.Error(t, err)
}

func TestCreateChaincodeInvokeProposal(t *testing.T) {
	signer := mockmsp.NewMockSigningIdentity("admin", "Org1MSP")
	txh, err := NewHeader(signer)
	require.NoError(t, err)

	prop, err := CreateChaincodeInvokeProposal(txh, "", ChaincodeInvokeRequest{
		ChaincodeID: "cscc",
		Fcn:         "JoinChain",
		Args:        [][]byte{[]byte("block")},
	})
	require.NoError(t, err)

	ccPayload := &pb.ChaincodeProposalPayload{}
	require.NoError(t, proto.Unmarshal(prop.Payload, ccPayload))
	cis := &pb.ChaincodeInvocationSpec{}
	require.NoError(t, proto.Unmarshal(ccPayload.Input, cis))
	assert.Equal(t, "cscc", cis.ChaincodeSpec.ChaincodeId.Name)
	assert.Equal(t, [][]byte{[]byte("JoinChain"), []byte("block")}, cis.ChaincodeSpec.Input.Args)

	signed, err := SignProposal(signer, prop)
	require.NoError(t, err)
	assert.NotEmpty(t, signed.ProposalBytes)
	assert.NotEmpty(t, signed.Signature)

	_, err = CreateChaincodeInvokeProposal(txh, "", ChaincodeInvokeRequest{Fcn: "JoinChain"})
	assert.EqualError(t, err, "ChaincodeID is required")
	_, err = CreateChaincodeInvokeProposal(txh, "", ChaincodeInvokeRequest{ChaincodeID: "cscc"})
	assert.EqualError(t, err, "Fcn is required")
}
