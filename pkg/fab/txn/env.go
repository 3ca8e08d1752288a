/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package txn creates transaction headers, payloads, envelopes and proposals
// sent to Fabric orderers and peers.
package txn

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes"
	"github.com/hyperledger/fabric-protos-go/common"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"

	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/msp"
)

// NonceSize is the default nonce size in bytes
const NonceSize = 24

// NewHeader mints a transaction header for the signer: a fresh random nonce and
// a transaction id computed over it. Headers are never reused between attempts.
func NewHeader(signer msp.SigningIdentity) (*fab.TransactionHeader, error) {
	if signer == nil {
		return nil, errors.New("signing identity is required")
	}

	nonce, err := getRandomNonce()
	if err != nil {
		return nil, errors.WithMessage(err, "nonce creation failed")
	}

	creator, err := signer.Serialize()
	if err != nil {
		return nil, errors.WithMessage(err, "identity serialization failed")
	}

	return &fab.TransactionHeader{
		ID:      ComputeTxnID(nonce, creator),
		Creator: creator,
		Nonce:   nonce,
	}, nil
}

// ComputeTxnID returns the hex encoded SHA-256 digest of nonce || creator
func ComputeTxnID(nonce, creator []byte) fab.TransactionID {
	h := sha256.New()
	h.Write(nonce)   //nolint: errcheck
	h.Write(creator) //nolint: errcheck
	return fab.TransactionID(hex.EncodeToString(h.Sum(nil)))
}

func getRandomNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "error getting random bytes")
	}
	return nonce, nil
}

// ChannelHeaderOpts holds the parameters to create a ChannelHeader.
type ChannelHeaderOpts struct {
	ChannelID   string
	TxnHeader   *fab.TransactionHeader
	Epoch       uint64
	ChaincodeID string
	Timestamp   time.Time
	TLSCertHash []byte
}

// CreateChannelHeader is a utility method to build a common chain header
func CreateChannelHeader(headerType common.HeaderType, opts ChannelHeaderOpts) (*common.ChannelHeader, error) {
	if opts.TxnHeader == nil {
		return nil, errors.New("transaction header is required")
	}

	channelHeader := &common.ChannelHeader{
		Type:        int32(headerType),
		ChannelId:   opts.ChannelID,
		TxId:        string(opts.TxnHeader.ID),
		Epoch:       opts.Epoch,
		TlsCertHash: opts.TLSCertHash,
	}

	if opts.Timestamp.IsZero() {
		opts.Timestamp = time.Now()
	}

	ts, err := ptypes.TimestampProto(opts.Timestamp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create timestamp in channel header")
	}
	channelHeader.Timestamp = ts

	if opts.ChaincodeID != "" {
		headerExt := &pb.ChaincodeHeaderExtension{
			ChaincodeId: &pb.ChaincodeID{Name: opts.ChaincodeID},
		}
		headerExtBytes, err := proto.Marshal(headerExt)
		if err != nil {
			return nil, errors.Wrap(err, "marshal header extension failed")
		}
		channelHeader.Extension = headerExtBytes
	}
	return channelHeader, nil
}

// CreateSignatureHeader creates a SignatureHeader from the transaction header
func CreateSignatureHeader(txh *fab.TransactionHeader) *common.SignatureHeader {
	return &common.SignatureHeader{
		Creator: txh.Creator,
		Nonce:   txh.Nonce,
	}
}

// CreateHeader creates a Header from a ChannelHeader.
func CreateHeader(txh *fab.TransactionHeader, channelHeader *common.ChannelHeader) (*common.Header, error) {
	sh, err := proto.Marshal(CreateSignatureHeader(txh))
	if err != nil {
		return nil, errors.Wrap(err, "marshal signatureHeader failed")
	}
	ch, err := proto.Marshal(channelHeader)
	if err != nil {
		return nil, errors.Wrap(err, "marshal channelHeader failed")
	}
	return &common.Header{
		SignatureHeader: sh,
		ChannelHeader:   ch,
	}, nil
}

// CreatePayload creates a payload from a ChannelHeader and a data slice.
func CreatePayload(txh *fab.TransactionHeader, channelHeader *common.ChannelHeader, data []byte) (*common.Payload, error) {
	header, err := CreateHeader(txh, channelHeader)
	if err != nil {
		return nil, errors.WithMessage(err, "header creation failed")
	}

	return &common.Payload{
		Header: header,
		Data:   data,
	}, nil
}

// SignPayload marshals and signs the payload, producing an envelope for the orderer
func SignPayload(signer msp.SigningIdentity, payload *common.Payload) (*fab.SignedEnvelope, error) {
	payloadBytes, err := proto.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling of payload failed")
	}

	signature, err := signer.Sign(payloadBytes)
	if err != nil {
		return nil, errors.WithMessage(err, "signing of payload failed")
	}
	return &fab.SignedEnvelope{Payload: payloadBytes, Signature: signature}, nil
}
