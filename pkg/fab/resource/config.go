/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package resource builds the channel management messages: config update
// envelopes, config signatures, deliver seek envelopes and cscc proposals.
package resource

import (
	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/common"
	"github.com/pkg/errors"

	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/msp"
	"github.com/fabsetup/fabric-setup-go/pkg/fab/txn"
)

// ExtractChannelConfig extracts the protobuf 'ConfigUpdate' bytes out of a
// channel transaction envelope such as the one produced by configtxgen.
func ExtractChannelConfig(configEnvelope []byte) ([]byte, error) {
	if len(configEnvelope) == 0 {
		return nil, errors.New("channel configuration envelope is empty")
	}

	envelope := &common.Envelope{}
	err := proto.Unmarshal(configEnvelope, envelope)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal config envelope failed")
	}

	payload := &common.Payload{}
	err = proto.Unmarshal(envelope.Payload, payload)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal envelope payload failed")
	}

	configUpdateEnvelope := &common.ConfigUpdateEnvelope{}
	err = proto.Unmarshal(payload.Data, configUpdateEnvelope)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal config update envelope")
	}

	if len(configUpdateEnvelope.ConfigUpdate) == 0 {
		return nil, errors.New("config update envelope carries no config update")
	}

	return configUpdateEnvelope.ConfigUpdate, nil
}

// CreateConfigSignature signs a config update on behalf of the signer. The
// signature is across a fresh signature header and the config update bytes.
func CreateConfigSignature(signer msp.SigningIdentity, config []byte) (*common.ConfigSignature, error) {
	if config == nil {
		return nil, errors.New("channel configuration required")
	}
	if signer == nil {
		return nil, errors.New("signing identity required")
	}

	txh, err := txn.NewHeader(signer)
	if err != nil {
		return nil, errors.WithMessage(err, "signature header creation failed")
	}

	signatureHeaderBytes, err := proto.Marshal(txn.CreateSignatureHeader(txh))
	if err != nil {
		return nil, errors.Wrap(err, "marshal signatureHeader failed")
	}

	signingBytes := make([]byte, 0, len(signatureHeaderBytes)+len(config))
	signingBytes = append(signingBytes, signatureHeaderBytes...)
	signingBytes = append(signingBytes, config...)

	signature, err := signer.Sign(signingBytes)
	if err != nil {
		return nil, errors.WithMessage(err, "signing of channel config failed")
	}

	return &common.ConfigSignature{
		SignatureHeader: signatureHeaderBytes,
		Signature:       signature,
	}, nil
}

// CreateConfigUpdateEnvelope wraps the config update and its signatures into a
// CONFIG_UPDATE envelope for the channel, signed by the signer under txh.
func CreateConfigUpdateEnvelope(signer msp.SigningIdentity, txh *fab.TransactionHeader, channelID string, config []byte, signatures []*common.ConfigSignature) (*fab.SignedEnvelope, error) {
	configUpdateEnvelope := &common.ConfigUpdateEnvelope{
		ConfigUpdate: config,
		Signatures:   signatures,
	}
	configUpdateEnvelopeBytes, err := proto.Marshal(configUpdateEnvelope)
	if err != nil {
		return nil, errors.Wrap(err, "marshal configUpdateEnvelope failed")
	}

	channelHeader, err := txn.CreateChannelHeader(common.HeaderType_CONFIG_UPDATE, txn.ChannelHeaderOpts{
		ChannelID: channelID,
		TxnHeader: txh,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "CreateChannelHeader failed")
	}

	payload, err := txn.CreatePayload(txh, channelHeader, configUpdateEnvelopeBytes)
	if err != nil {
		return nil, errors.WithMessage(err, "CreatePayload failed")
	}

	return txn.SignPayload(signer, payload)
}
