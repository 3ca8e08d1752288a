/*
Copyright SecureKey Technologies Inc., Unchain B.V. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mockfab

import (
	"github.com/golang/mock/gomock"
	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/common"
)

// ErrorMessage is a mock error message
const ErrorMessage = "default error message"

// DefaultMockOrderer returns a mock orderer answering URL() with url
func DefaultMockOrderer(mockCtrl *gomock.Controller, url string) *MockOrderer {
	orderer := NewMockOrderer(mockCtrl)
	orderer.EXPECT().URL().Return(url).AnyTimes()
	return orderer
}

// DefaultMockPeer returns a mock peer answering URL() with url
func DefaultMockPeer(mockCtrl *gomock.Controller, url string) *MockProposalProcessor {
	peer := NewMockProposalProcessor(mockCtrl)
	peer.EXPECT().URL().Return(url).AnyTimes()
	return peer
}

// GenesisBlock returns a minimal block 0 for the given channel
func GenesisBlock(channelID string) *common.Block {
	chdr, _ := proto.Marshal(&common.ChannelHeader{Type: int32(common.HeaderType_CONFIG), ChannelId: channelID})
	payload, _ := proto.Marshal(&common.Payload{Header: &common.Header{ChannelHeader: chdr}})
	env, _ := proto.Marshal(&common.Envelope{Payload: payload})

	return &common.Block{
		Header:   &common.BlockHeader{Number: 0},
		Data:     &common.BlockData{Data: [][]byte{env}},
		Metadata: &common.BlockMetadata{Metadata: [][]byte{{}, {}, {}, {}}},
	}
}

// ChannelConfigTx returns a channel transaction envelope, as written by
// configtxgen, wrapping the given config update bytes
func ChannelConfigTx(channelID string, configUpdate []byte) []byte {
	chdr, _ := proto.Marshal(&common.ChannelHeader{Type: int32(common.HeaderType_CONFIG_UPDATE), ChannelId: channelID})
	data, _ := proto.Marshal(&common.ConfigUpdateEnvelope{ConfigUpdate: configUpdate})
	payload, _ := proto.Marshal(&common.Payload{Header: &common.Header{ChannelHeader: chdr}, Data: data})
	env, _ := proto.Marshal(&common.Envelope{Payload: payload})
	return env
}
