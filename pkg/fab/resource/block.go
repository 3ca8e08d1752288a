/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resource

import (
	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/common"
	ab "github.com/hyperledger/fabric-protos-go/orderer"
	"github.com/pkg/errors"

	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/msp"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/txn"
)

// CreateSeekEnvelope creates a signed DELIVER_SEEK_INFO envelope asking for the
// single block at pos.
func CreateSeekEnvelope(signer msp.SigningIdentity, channelID string, pos *ab.SeekPosition) (*fab.SignedEnvelope, error) {
	th, err := txn.NewHeader(signer)
	if err != nil {
		return nil, errors.WithMessage(err, "generating TX ID failed")
	}

	seekInfoHeader, err := txn.CreateChannelHeader(common.HeaderType_DELIVER_SEEK_INFO, txn.ChannelHeaderOpts{
		ChannelID: channelID,
		TxnHeader: th,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "CreateChannelHeader failed")
	}

	seekInfo := &ab.SeekInfo{
		Start:    pos,
		Stop:     pos,
		Behavior: ab.SeekInfo_BLOCK_UNTIL_READY,
	}

	seekInfoBytes, err := proto.Marshal(seekInfo)
	if err != nil {
		return nil, errors.Wrap(err, "marshal seek info failed")
	}

	payload, err := txn.CreatePayload(th, seekInfoHeader, seekInfoBytes)
	if err != nil {
		return nil, errors.WithMessage(err, "CreatePayload failed")
	}

	return txn.SignPayload(signer, payload)
}

// NewNewestSeekPosition returns a SeekPosition that requests the newest block
func NewNewestSeekPosition() *ab.SeekPosition {
	return &ab.SeekPosition{Type: &ab.SeekPosition_Newest{Newest: &ab.SeekNewest{}}}
}

// NewSpecificSeekPosition returns a SeekPosition that requests the block at the given index
func NewSpecificSeekPosition(index uint64) *ab.SeekPosition {
	return &ab.SeekPosition{Type: &ab.SeekPosition_Specified{Specified: &ab.SeekSpecified{Number: index}}}
}

// ChannelIDFromBlock returns the channel id found in the header of the block's first transaction
func ChannelIDFromBlock(block *common.Block) (string, error) {
	if block == nil || block.Data == nil || len(block.Data.Data) == 0 {
		return "", errors.New("invalid block")
	}

	envelope := &common.Envelope{}
	if err := proto.Unmarshal(block.Data.Data[0], envelope); err != nil {
		return "", errors.Wrap(err, "unmarshal envelope from block failed")
	}
	payload := &common.Payload{}
	if err := proto.Unmarshal(envelope.Payload, payload); err != nil {
		return "", errors.Wrap(err, "unmarshal payload from envelope failed")
	}
	if payload.Header == nil {
		return "", errors.New("payload header is missing")
	}
	channelHeader := &common.ChannelHeader{}
	if err := proto.Unmarshal(payload.Header.ChannelHeader, channelHeader); err != nil {
		return "", errors.Wrap(err, "unmarshal channel header failed")
	}
	return channelHeader.ChannelId, nil
}
